package staff

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/staff"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

type StaffServiceImpl struct {
	employeeService employee.EmployeeService
}

func NewStaffService(employeeService employee.EmployeeService) staff.StaffService {
	return &StaffServiceImpl{employeeService: employeeService}
}

// ListAllStaff loads every category in parallel
func (s *StaffServiceImpl) ListAllStaff(ctx context.Context) ([]employee.EmployeeResponse, error) {
	lists := make([][]employee.EmployeeResponse, len(staff.Categories))

	g, gCtx := errgroup.WithContext(ctx)
	for i, category := range staff.Categories {
		g.Go(func() error {
			members, err := s.ListStaff(gCtx, category)
			if err != nil {
				return err
			}
			lists[i] = members
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := slices.Concat(lists...)
	slices.SortFunc(all, func(a, b employee.EmployeeResponse) int {
		return strings.Compare(a.ID, b.ID)
	})
	return all, nil
}

func (s *StaffServiceImpl) ListStaff(ctx context.Context, category staff.Category) ([]employee.EmployeeResponse, error) {
	proj := category.Project()
	members, err := s.employeeService.ListEmployees(ctx, employee.EmployeeFilter{Project: &proj})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s staff: %w", category, err)
	}
	return members, nil
}

func (s *StaffServiceImpl) GetStaff(ctx context.Context, category staff.Category, id string) (employee.EmployeeResponse, error) {
	member, err := s.employeeService.GetEmployee(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if member.Project != category.Project() {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return member, nil
}

func (s *StaffServiceImpl) CreateStaff(ctx context.Context, category staff.Category, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	req.Project = category.Project()
	if validator.IsEmpty(req.Department) {
		req.Department = category.Department()
	}

	created, err := s.employeeService.CreateEmployee(ctx, req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("staff member created", "employee_id", created.ID, "category", category)
	return created, nil
}

func (s *StaffServiceImpl) UpdateStaff(ctx context.Context, category staff.Category, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	// members move between categories by deleting and re-creating
	if req.Project != nil && *req.Project != category.Project() {
		var errs validator.ValidationErrors
		errs.Add("project", "project must be "+category.Project())
		return employee.EmployeeResponse{}, errs
	}

	if _, err := s.GetStaff(ctx, category, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.employeeService.UpdateEmployee(ctx, req)
}

func (s *StaffServiceImpl) DeleteStaff(ctx context.Context, category staff.Category, id string) error {
	if _, err := s.GetStaff(ctx, category, id); err != nil {
		return err
	}
	return s.employeeService.DeleteEmployee(ctx, id)
}
