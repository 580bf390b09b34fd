package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/sse"
)

// Topic is the hub topic dashboard listeners subscribe to
const Topic = "dashboard"

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	projectRepo     project.ProjectRepository
	assignmentsRepo shiftassign.Repository
	hub             *sse.Hub
	loc             *time.Location
	now             func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	projectRepo project.ProjectRepository,
	assignmentsRepo shiftassign.Repository,
	hub *sse.Hub,
	loc *time.Location,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		projectRepo:         projectRepo,
		assignmentsRepo:     assignmentsRepo,
		hub:                 hub,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetStats returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetStats(ctx context.Context, monthYear string) (*dashboard.StatsResponse, error) {
	now := s.now().In(s.loc)

	curYear, curMonth := calendar.CurrentYearMonth(now)
	year, month := curYear, curMonth
	if monthYear != "" {
		var err error
		year, month, err = calendar.ParseMonthKey(monthYear)
		if err != nil {
			return nil, shiftassign.ErrInvalidMonthKey
		}
	}
	mk := calendar.MonthKeyOf(year, month)

	// today's column only exists when looking at the current month
	today := ""
	if year == curYear && month == curMonth {
		today = strconv.Itoa(now.Day())
	}

	var (
		summary     *dashboard.EmployeeSummaryStats
		departments []dashboard.DepartmentCount
		projects    []project.Project
		months      []shiftassign.ProjectMonth
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee summary (1 query: total, active, inactive, gender)
	g.Go(func() error {
		stats, err := s.GetEmployeeSummary(gCtx)
		if err != nil {
			return fmt.Errorf("employee summary: %w", err)
		}
		summary = stats
		return nil
	})

	// 2. Active headcount per department
	g.Go(func() error {
		counts, err := s.GetDepartmentCounts(gCtx)
		if err != nil {
			return fmt.Errorf("department counts: %w", err)
		}
		departments = counts
		return nil
	})

	// 3. Projects with rosters
	g.Go(func() error {
		list, err := s.projectRepo.List(gCtx, project.ProjectFilter{})
		if err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		projects = list
		return nil
	})

	// 4. Saved grids of the month
	g.Go(func() error {
		list, err := s.assignmentsRepo.ListByMonth(gCtx, mk)
		if err != nil {
			return fmt.Errorf("shift assignments: %w", err)
		}
		months = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	window := calendar.CurrentShiftWindow(now)
	resp := &dashboard.StatsResponse{
		CurrentShift: window.String(),
		ShiftRange:   window.TimeRange(),
		UpdatedAt:    now.Format(time.RFC3339),
		MonthYear:    mk.String(),
		Employees: dashboard.EmployeeStats{
			Total:    summary.Total,
			Inactive: summary.Inactive,
			Active: dashboard.GenderCounts{
				Total:  summary.Active,
				Male:   summary.ActiveMale,
				Female: summary.ActiveFemale,
			},
		},
		Departments: make(map[string]int64, len(departments)),
		Projects:    make([]dashboard.ProjectShiftStats, 0, len(projects)),
	}
	if today != "" {
		resp.Today = now.Format("2006-01-02")
	}

	// known departments are always reported, even when empty
	for _, d := range project.DepartmentValues {
		resp.Departments[d] = 0
	}
	for _, d := range departments {
		resp.Departments[d.Department] = d.Active
	}

	byProject := make(map[string]shiftassign.Assignments, len(months))
	for _, pm := range months {
		byProject[pm.ProjectID] = pm.Assignments
	}

	for _, p := range projects {
		a, saved := byProject[p.ID]
		stats := dashboard.ProjectShiftStats{
			ID:            p.ID,
			Name:          p.Name,
			Department:    p.Department,
			Headcount:     len(p.EmployeeIDs),
			HasAssignment: saved,
		}
		if today != "" {
			for _, id := range p.EmployeeIDs {
				switch shiftassign.DecodeCell(a.Get(id, today)).Kind {
				case shiftassign.CellRestDay:
					stats.RestDayToday++
				case shiftassign.CellTimeRange:
					stats.ScheduledDay++
				default:
					stats.UnsetToday++
				}
			}
		}
		resp.Projects = append(resp.Projects, stats)
	}

	return resp, nil
}

func (s *DashboardServiceImpl) Subscribe(ctx context.Context) (chan sse.Event, func()) {
	return s.hub.Subscribe(Topic)
}

// PublishUpdate is a no-op while nobody listens
func (s *DashboardServiceImpl) PublishUpdate(ctx context.Context) error {
	if s.hub.SubscriberCount(Topic) == 0 {
		return nil
	}

	stats, err := s.GetStats(ctx, "")
	if err != nil {
		return err
	}

	s.hub.Publish(Topic, sse.Event{
		Event: dashboard.UpdateEvent,
		Data:  stats,
	})
	return nil
}
