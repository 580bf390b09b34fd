package shiftassign

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/export"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/sqlite"
)

type countingNotifier struct{ calls int }

func (n *countingNotifier) PublishUpdate(ctx context.Context) error {
	n.calls++
	return nil
}

func newTestService(t *testing.T) (shiftassign.Service, *countingNotifier) {
	t.Helper()
	svc, notifier, _ := newTestServiceWithRepo(t)
	return svc, notifier
}

func newTestServiceWithRepo(t *testing.T) (shiftassign.Service, *countingNotifier, shiftassign.Repository) {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employees := sqlite.NewEmployeeRepository(db)
	projects := sqlite.NewProjectRepository(db)
	for _, e := range []employee.Employee{
		{ID: "E2", Name: "Nimali Perera", Gender: employee.Female, Status: employee.StatusActive, Department: project.DepartmentIT},
		{ID: "E1", Name: "Kasun Silva", Gender: employee.Male, Status: employee.StatusActive, Department: project.DepartmentIT},
		{ID: "E3", Name: "Ruwan Jayasinghe", Gender: employee.Male, Status: employee.StatusActive, Department: project.DepartmentIT},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}
	_, err = projects.Create(ctx, project.Project{ID: "P1", Name: "STL", Department: project.DepartmentIT, EmployeeIDs: []string{"E1", "E2"}})
	require.NoError(t, err)

	notifier := &countingNotifier{}
	repo := sqlite.NewShiftAssignmentRepository(db)
	return NewShiftAssignService(repo, projects, employees, notifier), notifier, repo
}

func TestService_GetEmptyMonth(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Get(context.Background(), "P1", "2025-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-10", resp.MonthYear)
	assert.NotNil(t, resp.Assignments)
	assert.Empty(t, resp.Assignments)
	assert.Nil(t, resp.UpdatedAt)
}

func TestService_SaveThenGet(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	req := shiftassign.SaveRequest{
		ProjectID: "P1",
		MonthYear: "2025-10",
		Assignments: shiftassign.Assignments{
			"E1": {"15": "RD", "16": ""},
			"E2": {"1": "08:30-20:30"},
		},
	}
	resp, err := svc.Save(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Inserted)
	assert.Equal(t, 1, notifier.calls)

	resp, err = svc.Save(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Inserted)

	got, err := svc.Get(ctx, "P1", "2025-10")
	require.NoError(t, err)
	// empty cells are not stored
	assert.Equal(t, shiftassign.Assignments{"E1": {"15": "RD"}, "E2": {"1": "08:30-20:30"}}, got.Assignments)
	assert.NotNil(t, got.UpdatedAt)
}

func TestService_SaveValidation(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, shiftassign.SaveRequest{
		ProjectID:   "P1",
		MonthYear:   "2025-02",
		Assignments: shiftassign.Assignments{"E1": {"30": "RD", "1": "9am"}},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "assignments.E1.30")
	assert.Contains(t, fields, "assignments.E1.1")

	_, err = svc.Save(ctx, shiftassign.SaveRequest{ProjectID: "P9", MonthYear: "2025-02"})
	assert.ErrorIs(t, err, shiftassign.ErrProjectNotFound)
	assert.Equal(t, 0, notifier.calls)
}

func TestService_GetRejectsBadMonth(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "P1", "2025-13")
	assert.ErrorIs(t, err, shiftassign.ErrInvalidMonthKey)
	_, err = svc.Get(context.Background(), "", "2025-01")
	assert.ErrorIs(t, err, shiftassign.ErrProjectIDRequired)
}

func TestService_Export(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, shiftassign.SaveRequest{
		ProjectID:   "P1",
		MonthYear:   "2025-10",
		Assignments: shiftassign.Assignments{"E1": {"15": "RD"}},
	})
	require.NoError(t, err)

	res, err := svc.Export(ctx, "P1", "2025-10", shiftassign.ExportXLSX)
	require.NoError(t, err)
	assert.Equal(t, "STL_2025-10_Schedule.xlsx", res.FileName)
	assert.Equal(t, shiftassign.ExportXLSX.ContentType(), res.ContentType)

	doc, err := export.ReadXLSX(bytes.NewReader(res.Content))
	require.NoError(t, err)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "E2", doc.Rows[0][0])
	assert.Equal(t, "E1", doc.Rows[1][0])
	assert.Equal(t, "RD", doc.Rows[1][16])
	assert.Equal(t, "-", doc.Rows[1][17])

	_, err = svc.Export(ctx, "P9", "2025-10", shiftassign.ExportCSV)
	assert.ErrorIs(t, err, shiftassign.ErrProjectNotFound)
}

func TestService_LegacyCellsDoNotBlockSave(t *testing.T) {
	svc, _, repo := newTestServiceWithRepo(t)
	ctx := context.Background()

	// written before values were validated
	_, err := repo.Upsert(ctx, shiftassign.ProjectMonth{
		ProjectID:   "P1",
		MonthKey:    calendar.MonthKeyOf(2025, 9),
		Assignments: shiftassign.Assignments{"E1": {"3": "Morning", "4": "09:00"}, "E2": {"1": "??"}},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "P1", "2025-10")
	require.NoError(t, err)
	assert.Equal(t, shiftassign.Assignments{"E1": {"4": "09:00"}}, got.Assignments)

	got.Assignments.Set("E1", "15", "RD")
	resp, err := svc.Save(ctx, shiftassign.SaveRequest{ProjectID: "P1", MonthYear: "2025-10", Assignments: got.Assignments})
	require.NoError(t, err)
	assert.False(t, resp.Inserted)

	got, err = svc.Get(ctx, "P1", "2025-10")
	require.NoError(t, err)
	assert.Equal(t, shiftassign.Assignments{"E1": {"4": "09:00", "15": "RD"}}, got.Assignments)
}

func TestService_ExportShowsLegacyCellsAsEmpty(t *testing.T) {
	svc, _, repo := newTestServiceWithRepo(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, shiftassign.ProjectMonth{
		ProjectID:   "P1",
		MonthKey:    calendar.MonthKeyOf(2025, 9),
		Assignments: shiftassign.Assignments{"E1": {"3": "Morning"}},
	})
	require.NoError(t, err)

	res, err := svc.Export(ctx, "P1", "2025-10", shiftassign.ExportCSV)
	require.NoError(t, err)
	doc, err := export.ReadCSV(bytes.NewReader(res.Content))
	require.NoError(t, err)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "E1", doc.Rows[1][0])
	assert.Equal(t, "-", doc.Rows[1][4])
}

func TestService_Delete(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, "P1", "2025-10"), shiftassign.ErrAssignmentsNotFound)

	_, err := svc.Save(ctx, shiftassign.SaveRequest{
		ProjectID:   "P1",
		MonthYear:   "2025-10",
		Assignments: shiftassign.Assignments{"E1": {"15": "RD"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, notifier.calls)

	require.NoError(t, svc.Delete(ctx, "P1", "2025-10"))
	assert.Equal(t, 2, notifier.calls)

	got, err := svc.Get(ctx, "P1", "2025-10")
	require.NoError(t, err)
	assert.Empty(t, got.Assignments)
	assert.Nil(t, got.UpdatedAt)

	assert.ErrorIs(t, svc.Delete(ctx, "P1", "10-2025"), shiftassign.ErrInvalidMonthKey)
}
