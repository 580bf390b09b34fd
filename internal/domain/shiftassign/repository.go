package shiftassign

import (
	"context"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
)

type Repository interface {
	// Get returns ErrAssignmentsNotFound when the project month was never saved
	Get(ctx context.Context, projectID string, monthKey calendar.MonthKey) (ProjectMonth, error)
	// Upsert replaces the whole project month and reports whether it was newly created
	Upsert(ctx context.Context, pm ProjectMonth) (bool, error)
	ListByMonth(ctx context.Context, monthKey calendar.MonthKey) ([]ProjectMonth, error)
	Delete(ctx context.Context, projectID string, monthKey calendar.MonthKey) error
}
