package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/postgresql"
)

func TestShiftAssignmentRepository_Upsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	projects := postgresql.NewProjectRepository(setup.DB)
	repo := postgresql.NewShiftAssignmentRepository(setup.DB)

	_, err := projects.Create(ctx, project.Project{ID: "P1", Name: "STL", Department: project.DepartmentIT})
	require.NoError(t, err)

	mk := calendar.MonthKeyOf(2025, 9)
	_, err = repo.Get(ctx, "P1", mk)
	assert.ErrorIs(t, err, shiftassign.ErrAssignmentsNotFound)

	inserted, err := repo.Upsert(ctx, shiftassign.ProjectMonth{
		ProjectID:   "P1",
		MonthKey:    mk,
		Assignments: shiftassign.Assignments{"E1": {"15": "RD"}},
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Upsert(ctx, shiftassign.ProjectMonth{
		ProjectID:   "P1",
		MonthKey:    mk,
		Assignments: shiftassign.Assignments{"E2": {"1": "08:30-20:30"}},
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	pm, err := repo.Get(ctx, "P1", mk)
	require.NoError(t, err)
	assert.Equal(t, shiftassign.Assignments{"E2": {"1": "08:30-20:30"}}, pm.Assignments)

	_, err = repo.Upsert(ctx, shiftassign.ProjectMonth{ProjectID: "P9", MonthKey: mk})
	assert.ErrorIs(t, err, shiftassign.ErrProjectNotFound)

	list, err := repo.ListByMonth(ctx, mk)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEmployeeRepository_DeleteDropsFromRoster(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	employees := postgresql.NewEmployeeRepository(setup.DB)
	projects := postgresql.NewProjectRepository(setup.DB)

	for _, id := range []string{"E2", "E1"} {
		_, err := employees.Create(ctx, employee.Employee{
			ID: id, Name: "Employee " + id, Gender: employee.Male,
			Status: employee.StatusActive, Department: project.DepartmentIT,
		})
		require.NoError(t, err)
	}

	_, err := employees.Create(ctx, employee.Employee{ID: "E1", Name: "dup", Gender: employee.Male, Status: employee.StatusActive, Department: "x"})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	list, err := employees.List(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "E2", list[0].ID)

	_, err = projects.Create(ctx, project.Project{ID: "P1", Name: "STL", Department: project.DepartmentIT, EmployeeIDs: []string{"E1", "E2"}})
	require.NoError(t, err)

	require.NoError(t, employees.Delete(ctx, "E1"))
	p, err := projects.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"E2"}, p.EmployeeIDs)
}

func TestUserRepository_Create(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	created, err := repo.Create(ctx, user.User{EmployeeID: "E1", Name: "Kasun", PasswordHash: "hash", Role: user.RolePTS})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = repo.Create(ctx, user.User{EmployeeID: "E1", Name: "Kasun", PasswordHash: "hash", Role: user.RolePTS})
	assert.ErrorIs(t, err, user.ErrUserEmployeeIDExists)

	_, err = repo.GetByEmployeeID(ctx, "E9")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
