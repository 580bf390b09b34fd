package shiftassign

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/export"
)

// UpdateNotifier is told when saved assignments change
type UpdateNotifier interface {
	PublishUpdate(ctx context.Context) error
}

type shiftAssignServiceImpl struct {
	repo         shiftassign.Repository
	projectRepo  project.ProjectRepository
	employeeRepo employee.EmployeeRepository
	notifier     UpdateNotifier
}

// NewShiftAssignService creates the service. notifier may be nil.
func NewShiftAssignService(
	repo shiftassign.Repository,
	projectRepo project.ProjectRepository,
	employeeRepo employee.EmployeeRepository,
	notifier UpdateNotifier,
) shiftassign.Service {
	return &shiftAssignServiceImpl{
		repo:         repo,
		projectRepo:  projectRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
	}
}

func parseSelection(projectID, monthYear string) (calendar.MonthKey, int, int, error) {
	if projectID == "" {
		return "", 0, 0, shiftassign.ErrProjectIDRequired
	}
	year, month, err := calendar.ParseMonthKey(monthYear)
	if err != nil {
		return "", 0, 0, shiftassign.ErrInvalidMonthKey
	}
	return calendar.MonthKeyOf(year, month), year, month, nil
}

func (s *shiftAssignServiceImpl) Get(ctx context.Context, projectID, monthYear string) (shiftassign.AssignmentsResponse, error) {
	mk, _, _, err := parseSelection(projectID, monthYear)
	if err != nil {
		return shiftassign.AssignmentsResponse{}, err
	}

	resp := shiftassign.AssignmentsResponse{
		ProjectID:   projectID,
		MonthYear:   mk.String(),
		Assignments: shiftassign.Assignments{},
	}

	pm, err := s.repo.Get(ctx, projectID, mk)
	if err != nil {
		if errors.Is(err, shiftassign.ErrAssignmentsNotFound) {
			return resp, nil
		}
		return shiftassign.AssignmentsResponse{}, fmt.Errorf("failed to get shift assignments: %w", err)
	}

	if pm.Assignments != nil {
		resp.Assignments = pm.Assignments.Normalize()
	}
	updatedAt := pm.UpdatedAt.Format(time.RFC3339)
	resp.UpdatedAt = &updatedAt
	return resp, nil
}

func (s *shiftAssignServiceImpl) Save(ctx context.Context, req shiftassign.SaveRequest) (shiftassign.SaveResponse, error) {
	if err := req.Validate(); err != nil {
		return shiftassign.SaveResponse{}, err
	}
	mk, _, _, err := parseSelection(req.ProjectID, req.MonthYear)
	if err != nil {
		return shiftassign.SaveResponse{}, err
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return shiftassign.SaveResponse{}, shiftassign.ErrProjectNotFound
		}
		return shiftassign.SaveResponse{}, err
	}

	inserted, err := s.repo.Upsert(ctx, shiftassign.ProjectMonth{
		ProjectID:   req.ProjectID,
		MonthKey:    mk,
		Assignments: req.Assignments.Compact(),
	})
	if err != nil {
		return shiftassign.SaveResponse{}, fmt.Errorf("failed to save shift assignments: %w", err)
	}

	slog.Info("shift assignments saved",
		"project_id", req.ProjectID,
		"month", mk,
		"employees", len(req.Assignments),
		"inserted", inserted,
	)

	s.notify(ctx)
	return shiftassign.SaveResponse{Inserted: inserted}, nil
}

func (s *shiftAssignServiceImpl) Delete(ctx context.Context, projectID, monthYear string) error {
	mk, _, _, err := parseSelection(projectID, monthYear)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, projectID, mk); err != nil {
		if errors.Is(err, shiftassign.ErrAssignmentsNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete shift assignments: %w", err)
	}

	slog.Info("shift assignments deleted", "project_id", projectID, "month", mk)
	s.notify(ctx)
	return nil
}

func (s *shiftAssignServiceImpl) notify(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishUpdate(ctx); err != nil {
		slog.Warn("failed to publish dashboard update", "error", err)
	}
}

func (s *shiftAssignServiceImpl) Export(ctx context.Context, projectID, monthYear string, format shiftassign.ExportFormat) (shiftassign.ExportResult, error) {
	mk, year, month, err := parseSelection(projectID, monthYear)
	if err != nil {
		return shiftassign.ExportResult{}, err
	}

	p, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			return shiftassign.ExportResult{}, shiftassign.ErrProjectNotFound
		}
		return shiftassign.ExportResult{}, err
	}

	all, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return shiftassign.ExportResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var assignments shiftassign.Assignments
	pm, err := s.repo.Get(ctx, projectID, mk)
	switch {
	case err == nil:
		assignments = pm.Assignments.Normalize()
	case errors.Is(err, shiftassign.ErrAssignmentsNotFound):
		assignments = shiftassign.Assignments{}
	default:
		return shiftassign.ExportResult{}, fmt.Errorf("failed to get shift assignments: %w", err)
	}

	doc := shiftassign.BuildDocument(p.Roster(all), year, month, assignments)

	var buf bytes.Buffer
	if err := format.Write(&buf, doc); err != nil {
		return shiftassign.ExportResult{}, fmt.Errorf("failed to render export: %w", err)
	}

	return shiftassign.ExportResult{
		FileName:    export.FileName(p.Name, mk.String(), format.Extension()),
		ContentType: format.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}
