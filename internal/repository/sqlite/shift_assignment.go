package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type shiftAssignmentRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewShiftAssignmentRepository(db *database.SQLiteDB) shiftassign.Repository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

const projectMonthColumns = `project_id, month_year, assignments, created_at, updated_at`

func scanProjectMonth(row rowScanner) (shiftassign.ProjectMonth, error) {
	var (
		pm                   shiftassign.ProjectMonth
		mk, raw              string
		createdAt, updatedAt string
	)
	if err := row.Scan(&pm.ProjectID, &mk, &raw, &createdAt, &updatedAt); err != nil {
		return shiftassign.ProjectMonth{}, err
	}
	pm.MonthKey = calendar.MonthKey(mk)
	if err := json.Unmarshal([]byte(raw), &pm.Assignments); err != nil {
		return shiftassign.ProjectMonth{}, fmt.Errorf("decode assignments of %s/%s: %w", pm.ProjectID, mk, err)
	}
	if pm.Assignments == nil {
		pm.Assignments = shiftassign.Assignments{}
	}

	var err error
	if pm.CreatedAt, err = parseTime(createdAt); err != nil {
		return shiftassign.ProjectMonth{}, err
	}
	if pm.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return shiftassign.ProjectMonth{}, err
	}
	return pm, nil
}

func (r *shiftAssignmentRepositoryImpl) Get(ctx context.Context, projectID string, monthKey calendar.MonthKey) (shiftassign.ProjectMonth, error) {
	q := getQuerier(ctx, r.db)

	pm, err := scanProjectMonth(q.QueryRowContext(ctx,
		"SELECT "+projectMonthColumns+" FROM shift_assignments WHERE project_id = ? AND month_year = ?",
		projectID, monthKey.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shiftassign.ProjectMonth{}, shiftassign.ErrAssignmentsNotFound
		}
		return shiftassign.ProjectMonth{}, fmt.Errorf("failed to get shift assignments: %w", err)
	}
	return pm, nil
}

// Upsert replaces the project month inside a transaction so the insert/update report is exact
func (r *shiftAssignmentRepositoryImpl) Upsert(ctx context.Context, pm shiftassign.ProjectMonth) (bool, error) {
	a := pm.Assignments
	if a == nil {
		a = shiftassign.Assignments{}
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("encode assignments: %w", err)
	}

	var inserted bool
	err = withTransaction(ctx, r.db, func(ctx context.Context) error {
		q := getQuerier(ctx, r.db)

		var exists bool
		if err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM shift_assignments WHERE project_id = ? AND month_year = ?)`,
			pm.ProjectID, pm.MonthKey.String(),
		).Scan(&exists); err != nil {
			return err
		}

		now := formatTime(time.Now())
		_, err := q.ExecContext(ctx, `
			INSERT INTO shift_assignments (project_id, month_year, assignments, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (project_id, month_year)
			DO UPDATE SET assignments = excluded.assignments, updated_at = excluded.updated_at
		`, pm.ProjectID, pm.MonthKey.String(), string(raw), now, now)
		if err != nil {
			if isForeignKeyViolation(err) {
				return shiftassign.ErrProjectNotFound
			}
			return fmt.Errorf("failed to upsert shift assignments: %w", err)
		}

		inserted = !exists
		return nil
	})
	return inserted, err
}

func (r *shiftAssignmentRepositoryImpl) ListByMonth(ctx context.Context, monthKey calendar.MonthKey) ([]shiftassign.ProjectMonth, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx,
		"SELECT "+projectMonthColumns+" FROM shift_assignments WHERE month_year = ? ORDER BY project_id",
		monthKey.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := make([]shiftassign.ProjectMonth, 0)
	for rows.Next() {
		pm, err := scanProjectMonth(rows)
		if err != nil {
			return nil, err
		}
		months = append(months, pm)
	}
	return months, rows.Err()
}

func (r *shiftAssignmentRepositoryImpl) Delete(ctx context.Context, projectID string, monthKey calendar.MonthKey) error {
	q := getQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM shift_assignments WHERE project_id = ? AND month_year = ?`, projectID, monthKey.String())
	if err != nil {
		return fmt.Errorf("failed to delete shift assignments: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shiftassign.ErrAssignmentsNotFound
	}
	return nil
}
