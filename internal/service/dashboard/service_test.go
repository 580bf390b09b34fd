package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/sse"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/sqlite"
)

func newTestService(t *testing.T, now time.Time) *DashboardServiceImpl {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employees := sqlite.NewEmployeeRepository(db)
	projects := sqlite.NewProjectRepository(db)
	assignments := sqlite.NewShiftAssignmentRepository(db)

	for _, e := range []employee.Employee{
		{ID: "E1", Name: "a", Gender: employee.Male, Status: employee.StatusActive, Department: project.DepartmentIT},
		{ID: "E2", Name: "b", Gender: employee.Female, Status: employee.StatusActive, Department: project.DepartmentIT},
		{ID: "E3", Name: "c", Gender: employee.Female, Status: employee.StatusInactive, Department: project.DepartmentDataEntry},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}
	_, err = projects.Create(ctx, project.Project{ID: "P1", Name: "STL", Department: project.DepartmentIT, EmployeeIDs: []string{"E1", "E2", "E3"}})
	require.NoError(t, err)
	_, err = projects.Create(ctx, project.Project{ID: "P2", Name: "LTL", Department: project.DepartmentIT})
	require.NoError(t, err)

	_, err = assignments.Upsert(ctx, shiftassign.ProjectMonth{
		ProjectID:   "P1",
		MonthKey:    calendar.MonthKeyOf(2025, 9),
		Assignments: shiftassign.Assignments{"E1": {"15": "RD"}, "E2": {"15": "05:30-13:30"}},
	})
	require.NoError(t, err)

	colombo, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	svc := NewDashboardService(sqlite.NewDashboardRepository(db), projects, assignments, sse.NewHub(), colombo).(*DashboardServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboardService_GetStats(t *testing.T) {
	// 2025-10-15 14:00 in Colombo
	now := time.Date(2025, 10, 15, 8, 30, 0, 0, time.UTC)
	svc := newTestService(t, now)

	stats, err := svc.GetStats(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Noon", stats.CurrentShift)
	assert.Equal(t, "13:30 - 21:30", stats.ShiftRange)
	assert.Equal(t, "2025-10", stats.MonthYear)
	assert.Equal(t, "2025-10-15", stats.Today)

	assert.Equal(t, int64(3), stats.Employees.Total)
	assert.Equal(t, int64(1), stats.Employees.Inactive)
	assert.Equal(t, dashboard.GenderCounts{Total: 2, Male: 1, Female: 1}, stats.Employees.Active)
	assert.Equal(t, int64(2), stats.Departments[project.DepartmentIT])
	count, ok := stats.Departments[project.DepartmentAdministration]
	assert.True(t, ok)
	assert.Zero(t, count)

	require.Len(t, stats.Projects, 2)
	p1 := stats.Projects[0]
	assert.Equal(t, "P1", p1.ID)
	assert.Equal(t, 3, p1.Headcount)
	assert.Equal(t, 1, p1.RestDayToday)
	assert.Equal(t, 1, p1.ScheduledDay)
	assert.Equal(t, 1, p1.UnsetToday)
	assert.True(t, p1.HasAssignment)
	assert.False(t, stats.Projects[1].HasAssignment)
}

func TestDashboardService_GetStatsOtherMonth(t *testing.T) {
	svc := newTestService(t, time.Date(2025, 10, 15, 8, 30, 0, 0, time.UTC))

	stats, err := svc.GetStats(context.Background(), "2025-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-09", stats.MonthYear)
	assert.Empty(t, stats.Today)
	assert.False(t, stats.Projects[0].HasAssignment)
	assert.Zero(t, stats.Projects[0].UnsetToday)

	_, err = svc.GetStats(context.Background(), "Sept")
	assert.ErrorIs(t, err, shiftassign.ErrInvalidMonthKey)
}

func TestDashboardService_PublishUpdate(t *testing.T) {
	svc := newTestService(t, time.Date(2025, 10, 15, 8, 30, 0, 0, time.UTC))
	ctx := context.Background()

	// nobody listening
	require.NoError(t, svc.PublishUpdate(ctx))

	ch, cleanup := svc.Subscribe(ctx)
	defer cleanup()

	require.NoError(t, svc.PublishUpdate(ctx))

	select {
	case ev := <-ch:
		assert.Equal(t, dashboard.UpdateEvent, ev.Event)
		stats, ok := ev.Data.(*dashboard.StatsResponse)
		require.True(t, ok)
		assert.Equal(t, "2025-10", stats.MonthYear)
	default:
		t.Fatal("expected a dashboard-update event")
	}
}
