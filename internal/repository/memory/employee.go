package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	mu      sync.RWMutex
	records []employee.Employee
	now     func() time.Time
}

// NewEmployeeRepository returns a process-local repository. Records are kept
// in insertion order and lost on restart.
func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepositoryImpl{now: time.Now}
}

func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.Employee, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.records[i], nil
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	newEmployee.CreatedAt = &now
	newEmployee.UpdatedAt = &now
	r.records = append(r.records, newEmployee)
	return newEmployee, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, updated employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(updated.ID)
	if i < 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	now := r.now().UTC()
	updated.CreatedAt = r.records[i].CreatedAt
	updated.UpdatedAt = &now
	r.records[i] = updated
	return updated, nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return employee.ErrEmployeeNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func (r *employeeRepositoryImpl) indexOf(id string) int {
	for i, e := range r.records {
		if e.ID == id {
			return i
		}
	}
	return -1
}
