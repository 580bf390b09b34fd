package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewUserRepository(db *database.SQLiteDB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, employee_id, name, password_hash, role, created_at`

func scanUser(row rowScanner) (user.User, error) {
	var (
		u         user.User
		role      string
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.EmployeeID, &u.Name, &u.PasswordHash, &role, &createdAt); err != nil {
		return user.User{}, err
	}
	u.Role = user.Role(role)

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	q := getQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE employee_id = ?", employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user with employee_id %s: %w", employeeID, err)
	}
	return u, nil
}

func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := getQuerier(ctx, r.db)

	_, err := q.ExecContext(ctx, `
		INSERT INTO users (employee_id, name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, newUser.EmployeeID, newUser.Name, newUser.PasswordHash, string(newUser.Role), formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmployeeIDExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByEmployeeID(ctx, newUser.EmployeeID)
}

func (r *userRepositoryImpl) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	q := getQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE employee_id = ?)`, employeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
