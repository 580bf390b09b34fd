// Package cli implements the shiftctl command line, a terminal front end for
// the monthly shift grid.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/client"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/service/grid"
)

const (
	envAPIURL     = "TWS_API_URL"
	defaultAPIURL = "http://localhost:8080"
)

var version = "dev"

type options struct {
	apiURL     string
	timezone   string
	timeout    time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// NewRootCommand builds the shiftctl command tree writing to out
func NewRootCommand(out io.Writer) *cobra.Command {
	return newRootCommand(out, &options{now: time.Now})
}

func newRootCommand(out io.Writer, opts *options) *cobra.Command {
	apiDefault := os.Getenv(envAPIURL)
	if apiDefault == "" {
		apiDefault = defaultAPIURL
	}

	root := &cobra.Command{
		Use:           "shiftctl",
		Short:         "View and edit monthly project shift grids",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.SetVersionTemplate("shiftctl {{.Version}}\n")

	root.PersistentFlags().StringVar(&opts.apiURL, "api", apiDefault, "Base URL of the shift board API (env "+envAPIURL+")")
	root.PersistentFlags().StringVar(&opts.timezone, "timezone", calendar.DefaultTimezone, "Timezone shifts are evaluated in")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall request timeout")

	root.AddCommand(
		newProjectsCommand(opts),
		newShowCommand(opts),
		newSetCommand(opts),
		newToggleCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newClearCommand(opts),
		newShiftCommand(opts),
	)
	return root
}

// session is a loaded grid for one project month
type session struct {
	api        *client.Client
	controller *grid.Controller
	project    project.Project
	year       int
	month      int
}

func (s *session) monthKey() calendar.MonthKey {
	return calendar.MonthKeyOf(s.year, s.month)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

func (o *options) location() (*time.Location, error) {
	loc, err := calendar.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid --timezone: %w", err)
	}
	return loc, nil
}

func (o *options) newController() (*client.Client, *grid.Controller, error) {
	api, err := client.New(o.apiURL, o.httpClient)
	if err != nil {
		return nil, nil, err
	}
	loc, err := o.location()
	if err != nil {
		return nil, nil, err
	}
	return api, grid.NewController(api, loc), nil
}

// open loads the directory and selects the project month. projectRef may be
// a project ID or a project name.
func (o *options) open(ctx context.Context, projectRef, monthYear string) (*session, error) {
	year, month, err := calendar.ParseMonthKey(monthYear)
	if err != nil {
		return nil, err
	}

	api, controller, err := o.newController()
	if err != nil {
		return nil, err
	}
	if err := controller.LoadDirectory(ctx); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}

	p, err := findProject(controller.Projects(), projectRef)
	if err != nil {
		return nil, err
	}
	if err := controller.Select(ctx, p.ID, year, month); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	return &session{api: api, controller: controller, project: p, year: year, month: month}, nil
}

func findProject(projects []project.Project, ref string) (project.Project, error) {
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
	}
	var matches []project.Project
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return project.Project{}, fmt.Errorf("%w: %q", project.ErrProjectNotFound, ref)
	default:
		return project.Project{}, fmt.Errorf("project name %q is ambiguous, use the project ID", ref)
	}
}

// save persists the session and reports the outcome
func (s *session) save(ctx context.Context, out io.Writer, dryRun bool) error {
	if dryRun {
		fmt.Fprintf(out, "Dry run: %s %s not saved\n", s.project.Name, s.monthKey())
		return nil
	}
	created, err := s.controller.Save(ctx)
	if err != nil {
		return err
	}
	outcome := "updated"
	if created {
		outcome = "created"
	}
	fmt.Fprintf(out, "Saved %s %s (%s)\n", s.project.Name, s.monthKey(), outcome)
	return nil
}
