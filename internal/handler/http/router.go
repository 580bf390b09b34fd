package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "tws-attendance"
	appVersion = "v1.0.0"
)

// RouterConfig holds the cross cutting settings of the API router
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewLogger returns an ECS formatted JSON logger
func NewLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", env),
	)
}

func NewRouter(
	cfg RouterConfig,
	employeeHandler EmployeeHandler,
	projectHandler ProjectHandler,
	userHandler UserHandler,
	shiftAssignmentHandler ShiftAssignmentHandler,
	dashboardHandler DashboardHandler,
	staffHandler StaffHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: false,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.ListEmployees)
			r.Post("/", employeeHandler.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", employeeHandler.GetEmployee)
				r.Put("/", employeeHandler.UpdateEmployee)
				r.Patch("/", employeeHandler.UpdateEmployee)
				r.Delete("/", employeeHandler.DeleteEmployee)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.UpdateProject)
				r.Patch("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
			})
		})

		r.Route("/others", func(r chi.Router) {
			r.Get("/", staffHandler.ListAllStaff)
			r.Route("/{category}", func(r chi.Router) {
				r.Get("/", staffHandler.ListStaff)
				r.Post("/", staffHandler.CreateStaff)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", staffHandler.GetStaff)
					r.Put("/", staffHandler.UpdateStaff)
					r.Patch("/", staffHandler.UpdateStaff)
					r.Delete("/", staffHandler.DeleteStaff)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
		})

		r.Route("/shiftAssignments", func(r chi.Router) {
			r.Post("/", shiftAssignmentHandler.Save)
			r.Route("/{projectId}/{monthYear}", func(r chi.Router) {
				r.Get("/", shiftAssignmentHandler.Get)
				r.Delete("/", shiftAssignmentHandler.Delete)
				r.Get("/export", shiftAssignmentHandler.Export)
			})
		})

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", dashboardHandler.GetStats)
			r.Get("/stream", dashboardHandler.Stream)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "route not found", http.StatusNotFound)
	})

	return r
}
