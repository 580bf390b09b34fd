package dashboard

import (
	"context"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/sse"
)

// UpdateEvent is the push channel event carrying fresh stats
const UpdateEvent = "dashboard-update"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetStats returns live statistics; monthYear defaults to the current month
	GetStats(ctx context.Context, monthYear string) (*StatsResponse, error)

	// Subscribe registers a listener for dashboard-update events
	Subscribe(ctx context.Context) (chan sse.Event, func())

	// PublishUpdate recomputes the stats and pushes them to all listeners
	PublishUpdate(ctx context.Context) error
}
