package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/sqlite"
)

func TestUserService_CreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	repo := sqlite.NewUserRepository(db)
	svc := NewUserService(repo)

	resp, err := svc.CreateUser(ctx, user.CreateUserRequest{
		EmployeeID: "E1",
		Name:       "Kasun",
		Password:   "secret123",
		Role:       "pts",
	})
	require.NoError(t, err)
	assert.Equal(t, "pts", resp.Role)

	stored, err := repo.GetByEmployeeID(ctx, "E1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	_, err = svc.CreateUser(ctx, user.CreateUserRequest{EmployeeID: "E1", Name: "Kasun", Password: "secret123", Role: "pts"})
	assert.ErrorIs(t, err, user.ErrUserEmployeeIDExists)

	_, err = svc.CreateUser(ctx, user.CreateUserRequest{EmployeeID: "E2", Name: "Nimali", Password: "123", Role: "root"})
	assert.Error(t, err)

	list, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
