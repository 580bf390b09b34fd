package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
)

// DefaultDashboardInterval is used when no interval is configured
const DefaultDashboardInterval = 30 * time.Second

// DashboardJobs keeps live dashboard listeners current
type DashboardJobs struct {
	dashboardService dashboard.DashboardService
	interval         time.Duration
}

func NewDashboardJobs(dashboardService dashboard.DashboardService, interval time.Duration) *DashboardJobs {
	if interval <= 0 {
		interval = DefaultDashboardInterval
	}
	return &DashboardJobs{
		dashboardService: dashboardService,
		interval:         interval,
	}
}

// RegisterJobs registers all dashboard jobs with the scheduler
func (j *DashboardJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("publish_dashboard_stats", j.interval, j.PublishStats)
}

// PublishStats recomputes the stats and pushes them to subscribers. The
// current shift rolls over on the clock, so this runs even without saves.
func (j *DashboardJobs) PublishStats(ctx context.Context) error {
	if err := j.dashboardService.PublishUpdate(ctx); err != nil {
		return fmt.Errorf("publish dashboard stats: %w", err)
	}
	return nil
}
