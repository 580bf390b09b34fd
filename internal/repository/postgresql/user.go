package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, name, password_hash, role, created_at
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.EmployeeID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmployeeID implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, name, password_hash, role, created_at
		FROM users
		WHERE employee_id = $1
	`

	var u user.User
	err := q.QueryRow(ctx, query, employeeID).Scan(&u.ID, &u.EmployeeID, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user with employee_id %s: %w", employeeID, err)
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (employee_id, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, employee_id, name, password_hash, role, created_at
	`

	var created user.User
	err := q.QueryRow(ctx, query, newUser.EmployeeID, newUser.Name, newUser.PasswordHash, newUser.Role).Scan(
		&created.ID, &created.EmployeeID, &created.Name, &created.PasswordHash, &created.Role, &created.CreatedAt,
	)
	if err != nil {
		if isPgCode(err, codeUniqueViolation) {
			return user.User{}, user.ErrUserEmployeeIDExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// ExistsByEmployeeID implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE employee_id = $1)`, employeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
