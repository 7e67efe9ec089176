package employee

import "context"

// EmployeeRepository persists employees for the reference backend.
// List returns records in insertion order.
type EmployeeRepository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, updated Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}

// Client is the panel's view of the employee REST backend. Success is only
// ever signalled by a nil error; callers refetch the list afterwards.
type Client interface {
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, draft Draft) (Employee, error)
	Update(ctx context.Context, id string, draft Draft) (Employee, error)
	Delete(ctx context.Context, id string) error
}
