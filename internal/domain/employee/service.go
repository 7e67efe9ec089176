package employee

import "context"

type EmployeeService interface {
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, req SaveEmployeeRequest) (Employee, error)
	Update(ctx context.Context, id string, req SaveEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, id string) error
}
