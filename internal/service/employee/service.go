package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/usermanager/internal/domain/employee"
	"github.com/cmlabs-hris/usermanager/internal/service/file"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	fileService  file.FileService
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, fileService file.FileService) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		fileService:  fileService,
	}
}

// present swaps the stored image path for its public URL.
func (s *EmployeeServiceImpl) present(e employee.Employee) employee.Employee {
	if e.Image != "" {
		e.Image = s.fileService.FileURL(e.Image)
	}
	return e
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.Employee, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	results := make([]employee.Employee, 0, len(employees))
	for _, e := range employees {
		results = append(results, s.present(e))
	}
	return results, nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.SaveEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	newEmployee := req.Employee()
	newEmployee.ID = uuid.NewString()

	if req.File != nil && req.FileHeader != nil {
		path, err := s.fileService.UploadEmployeeImage(ctx, newEmployee.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to upload image: %w", err)
		}
		newEmployee.Image = path
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		s.discard(ctx, newEmployee.Image)
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created", "employee_id", created.ID)
	return s.present(created), nil
}

// Update implements employee.EmployeeService. Without a new file the
// current image is kept; a new file replaces and removes the old one.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.SaveEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	updated := req.Employee()
	updated.ID = existing.ID
	updated.Image = existing.Image
	updated.CreatedAt = existing.CreatedAt

	var uploaded string
	if req.File != nil && req.FileHeader != nil {
		uploaded, err = s.fileService.UploadEmployeeImage(ctx, id, req.File, req.FileHeader.Filename)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to upload image: %w", err)
		}
		updated.Image = uploaded
	}

	saved, err := s.employeeRepo.Update(ctx, updated)
	if err != nil {
		s.discard(ctx, uploaded)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	if uploaded != "" && existing.Image != "" {
		s.discard(ctx, existing.Image)
	}

	return s.present(saved), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.discard(ctx, existing.Image)
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}

// discard removes a stored image. Failures are logged only; the record
// change has already happened.
func (s *EmployeeServiceImpl) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.fileService.DeleteFile(ctx, path); err != nil {
		slog.Warn("Failed to delete employee image", "path", path, "error", err)
	}
}
