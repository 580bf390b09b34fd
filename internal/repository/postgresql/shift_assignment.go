package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type shiftAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) shiftassign.Repository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

func scanProjectMonth(row pgx.Row) (shiftassign.ProjectMonth, error) {
	var (
		pm  shiftassign.ProjectMonth
		raw []byte
		mk  string
	)
	if err := row.Scan(&pm.ProjectID, &mk, &raw, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
		return shiftassign.ProjectMonth{}, err
	}
	pm.MonthKey = calendar.MonthKey(mk)
	if err := json.Unmarshal(raw, &pm.Assignments); err != nil {
		return shiftassign.ProjectMonth{}, fmt.Errorf("decode assignments of %s/%s: %w", pm.ProjectID, mk, err)
	}
	if pm.Assignments == nil {
		pm.Assignments = shiftassign.Assignments{}
	}
	return pm, nil
}

// Get implements shiftassign.Repository.
func (r *shiftAssignmentRepositoryImpl) Get(ctx context.Context, projectID string, monthKey calendar.MonthKey) (shiftassign.ProjectMonth, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT project_id, month_year, assignments, created_at, updated_at
		FROM shift_assignments
		WHERE project_id = $1 AND month_year = $2
	`

	pm, err := scanProjectMonth(q.QueryRow(ctx, query, projectID, monthKey.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shiftassign.ProjectMonth{}, shiftassign.ErrAssignmentsNotFound
		}
		return shiftassign.ProjectMonth{}, fmt.Errorf("failed to get shift assignments: %w", err)
	}
	return pm, nil
}

// Upsert replaces the project month; xmax is 0 only for freshly inserted rows
func (r *shiftAssignmentRepositoryImpl) Upsert(ctx context.Context, pm shiftassign.ProjectMonth) (bool, error) {
	q := GetQuerier(ctx, r.db)

	a := pm.Assignments
	if a == nil {
		a = shiftassign.Assignments{}
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("encode assignments: %w", err)
	}

	query := `
		INSERT INTO shift_assignments (project_id, month_year, assignments)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (project_id, month_year)
		DO UPDATE SET assignments = EXCLUDED.assignments, updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	if err := q.QueryRow(ctx, query, pm.ProjectID, pm.MonthKey.String(), string(raw)).Scan(&inserted); err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return false, shiftassign.ErrProjectNotFound
		}
		return false, fmt.Errorf("failed to upsert shift assignments: %w", err)
	}
	return inserted, nil
}

// ListByMonth implements shiftassign.Repository.
func (r *shiftAssignmentRepositoryImpl) ListByMonth(ctx context.Context, monthKey calendar.MonthKey) ([]shiftassign.ProjectMonth, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT project_id, month_year, assignments, created_at, updated_at
		FROM shift_assignments
		WHERE month_year = $1
		ORDER BY project_id
	`, monthKey.String())
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
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return months, nil
}

// Delete implements shiftassign.Repository.
func (r *shiftAssignmentRepositoryImpl) Delete(ctx context.Context, projectID string, monthKey calendar.MonthKey) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE project_id = $1 AND month_year = $2`, projectID, monthKey.String())
	if err != nil {
		return fmt.Errorf("failed to delete shift assignments: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shiftassign.ErrAssignmentsNotFound
	}
	return nil
}
