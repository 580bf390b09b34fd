package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/config"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	appHTTP "github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/cron"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/sse"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/postgresql"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/sqlite"
	dashboardService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/employee"
	projectService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/project"
	shiftAssignService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/shiftassign"
	staffService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/staff"
	userService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/user"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	employee    employee.EmployeeRepository
	project     project.ProjectRepository
	user        user.UserRepository
	assignments shiftassign.Repository
	dashboard   dashboard.DashboardRepository
	close       func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.Env, cfg.LogLevel())
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	hub := sse.NewHub()

	dashboardSvc := dashboardService.NewDashboardService(repos.dashboard, repos.project, repos.assignments, hub, loc)
	employeeSvc := employeeService.NewEmployeeService(repos.employee)
	projectSvc := projectService.NewProjectService(repos.project, repos.employee)
	userSvc := userService.NewUserService(repos.user)
	staffSvc := staffService.NewStaffService(employeeSvc)
	shiftSvc := shiftAssignService.NewShiftAssignService(repos.assignments, repos.project, repos.employee, dashboardSvc)

	scheduler := cron.NewScheduler(ctx)
	cron.NewDashboardJobs(dashboardSvc, cfg.Dashboard.Interval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			Logger:         logger,
		},
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewProjectHandler(projectSvc),
		appHTTP.NewUserHandler(userSvc),
		appHTTP.NewShiftAssignmentHandler(shiftSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewStaffHandler(staffSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", srv.Addr, "driver", cfg.Database.Driver, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "sse_subscribers", hub.TotalSubscribers())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &repositories{
			employee:    sqlite.NewEmployeeRepository(db),
			project:     sqlite.NewProjectRepository(db),
			user:        sqlite.NewUserRepository(db),
			assignments: sqlite.NewShiftAssignmentRepository(db),
			dashboard:   sqlite.NewDashboardRepository(db),
			close:       func() { db.Close() },
		}, nil

	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &repositories{
			employee:    postgresql.NewEmployeeRepository(db),
			project:     postgresql.NewProjectRepository(db),
			user:        postgresql.NewUserRepository(db),
			assignments: postgresql.NewShiftAssignmentRepository(db),
			dashboard:   postgresql.NewDashboardRepository(db),
			close:       db.Close,
		}, nil
	}
}
