package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/sse"
)

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	s := NewScheduler(context.Background())
	var calls atomic.Int32
	s.AddJob("count", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	s.Start()
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestScheduler_RunOnceKeepsGoingAfterFailure(t *testing.T) {
	s := NewScheduler(context.Background())
	var order []string
	s.AddJob("a", time.Hour, func(ctx context.Context) error {
		order = append(order, "a")
		return errors.New("boom")
	})
	s.AddJob("b", time.Hour, func(ctx context.Context) error {
		order = append(order, "b")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}

func TestScheduler_StopCancelsContext(t *testing.T) {
	s := NewScheduler(context.Background())
	done := make(chan struct{})
	s.AddJob("wait", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	})
	s.Start()
	s.Stop()

	select {
	case <-done:
	default:
		t.Fatal("job did not observe cancellation")
	}
}

func TestScheduler_SkipsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(context.Background())
	var calls atomic.Int32
	s.AddJob("bad", 0, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	s.Start()
	s.Stop()
	assert.Zero(t, calls.Load())
}

type fakeDashboard struct {
	publishes atomic.Int32
	err       error
}

func (f *fakeDashboard) GetStats(ctx context.Context, monthYear string) (*dashboard.StatsResponse, error) {
	return &dashboard.StatsResponse{}, nil
}

func (f *fakeDashboard) Subscribe(ctx context.Context) (chan sse.Event, func()) {
	ch := make(chan sse.Event)
	return ch, func() {}
}

func (f *fakeDashboard) PublishUpdate(ctx context.Context) error {
	f.publishes.Add(1)
	return f.err
}

func TestDashboardJobs(t *testing.T) {
	svc := &fakeDashboard{}
	jobs := NewDashboardJobs(svc, 0)
	assert.Equal(t, DefaultDashboardInterval, jobs.interval)

	s := NewScheduler(context.Background())
	jobs.RegisterJobs(s)
	assert.Equal(t, []string{"publish_dashboard_stats"}, s.Jobs())

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), svc.publishes.Load())

	svc.err = errors.New("db down")
	err := jobs.PublishStats(context.Background())
	assert.ErrorIs(t, err, svc.err)
}
