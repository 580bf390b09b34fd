package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses, nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee ID: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:           req.ID,
		Name:         req.Name,
		Gender:       employee.Gender(req.Gender),
		Status:       employee.Status(req.Status),
		Department:   req.Department,
		Project:      req.Project,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "department", created.Department)
	return employee.ToResponse(created), nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	// 404 before touching anything
	if _, err := s.employeeRepo.GetByID(ctx, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(updated), nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("employee deleted", "employee_id", id)
	return nil
}
