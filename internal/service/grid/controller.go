package grid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/export"
)

// Store is the persistence collaborator of the grid
type Store interface {
	// LoadAssignments returns nil assignments or ErrAssignmentsNotFound when none were saved yet
	LoadAssignments(ctx context.Context, projectID string, monthKey calendar.MonthKey) (shiftassign.Assignments, error)
	// SaveAssignments replaces the project month and reports whether it was newly created
	SaveAssignments(ctx context.Context, projectID string, monthKey calendar.MonthKey, a shiftassign.Assignments) (bool, error)
	LoadEmployees(ctx context.Context) ([]employee.Employee, error)
	LoadProjects(ctx context.Context) ([]project.Project, error)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSaving
	StateExporting
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateExporting:
		return "exporting"
	}
	return "idle"
}

// Selection is a project and a zero-based month
type Selection struct {
	ProjectID string
	Year      int
	Month     int
}

func (s Selection) MonthKey() calendar.MonthKey {
	return calendar.MonthKeyOf(s.Year, s.Month)
}

// Controller binds a project/month selection to an in-memory assignment set.
// Edits are local; the store is contacted only on Select, LoadDirectory and Save.
// It is safe for concurrent use. Store calls are made without holding the lock.
type Controller struct {
	store Store
	loc   *time.Location

	mu         sync.Mutex
	state      State
	generation uint64
	selection  *Selection
	set        shiftassign.Set
	edits      uint64
	savedEdits uint64
	saving     bool
	employees  []employee.Employee
	projects   []project.Project
	lastErr    error
}

// NewController creates a controller. A nil loc means UTC.
func NewController(store Store, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	return &Controller{
		store: store,
		loc:   loc,
		state: StateIdle,
	}
}

// Select discards the current set and loads the assignments of the new selection.
// A load failure leaves an empty grid and is returned. When another selection
// was made while loading, the response is dropped and nil is returned.
func (c *Controller) Select(ctx context.Context, projectID string, year, month int) error {
	if projectID == "" {
		return shiftassign.ErrProjectIDRequired
	}
	if month < 0 || month > 11 {
		return shiftassign.ErrInvalidMonthKey
	}

	sel := Selection{ProjectID: projectID, Year: year, Month: month}
	mk := sel.MonthKey()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.selection = &sel
	c.set = nil
	c.edits, c.savedEdits = 0, 0
	c.state = StateLoading
	c.lastErr = nil
	c.mu.Unlock()

	a, err := c.store.LoadAssignments(ctx, projectID, mk)
	if errors.Is(err, shiftassign.ErrAssignmentsNotFound) {
		a, err = nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		slog.Debug("dropping stale assignments response", "project_id", projectID, "month", mk)
		return nil
	}

	if err != nil || a == nil {
		a = make(shiftassign.Assignments)
	}
	c.set = shiftassign.Set{mk: a.Normalize()}
	c.state = StateReady

	if err != nil {
		c.lastErr = fmt.Errorf("load assignments: %w", err)
		return c.lastErr
	}
	return nil
}

// LoadDirectory fetches employees and projects in parallel.
// On failure the previously loaded lists are kept.
func (c *Controller) LoadDirectory(ctx context.Context) error {
	var (
		employees []employee.Employee
		projects  []project.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = c.store.LoadEmployees(gctx)
		if err != nil {
			return fmt.Errorf("load employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		projects, err = c.store.LoadProjects(gctx)
		if err != nil {
			return fmt.Errorf("load projects: %w", err)
		}
		return nil
	})

	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		return err
	}
	c.employees = employees
	c.projects = projects
	return nil
}

// EditCell replaces one cell of the selected month with a raw stored value
func (c *Controller) EditCell(employeeID, day, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.editLocked(employeeID, day, func(string) string { return raw })
}

// SetTimeRange writes a one or two sided time range
func (c *Controller) SetTimeRange(employeeID, day, start, end string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.editLocked(employeeID, day, func(string) string {
		return shiftassign.TimeRangeCell(start, end).Encode()
	})
}

// ToggleRestDay flips a cell between rest day and empty; a time range is lost
func (c *Controller) ToggleRestDay(employeeID, day string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.editLocked(employeeID, day, shiftassign.ToggleRestDay)
}

func (c *Controller) editLocked(employeeID, day string, next func(current string) string) error {
	if c.selection == nil {
		return shiftassign.ErrNoSelection
	}
	if c.state == StateLoading {
		return shiftassign.ErrNotReady
	}
	sel := *c.selection
	if !calendar.ValidDay(sel.Year, sel.Month, day) {
		return shiftassign.ErrDayOutOfRange
	}
	if !c.onRosterLocked(employeeID) {
		return shiftassign.ErrUnknownEmployee
	}

	mk := sel.MonthKey()
	current := shiftassign.GetCell(c.set, mk, employeeID, day)
	c.set = shiftassign.SetCell(c.set, mk, employeeID, day, next(current))
	c.edits++
	return nil
}

func (c *Controller) onRosterLocked(employeeID string) bool {
	for _, e := range c.rowsLocked() {
		if e.ID == employeeID {
			return true
		}
	}
	return false
}

// Save sends the whole selected month to the store. Only one save runs at a time.
// On failure the in-memory edits are kept.
func (c *Controller) Save(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.selection == nil {
		c.mu.Unlock()
		return false, shiftassign.ErrNoSelection
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		return false, shiftassign.ErrNotReady
	}
	if c.saving {
		c.mu.Unlock()
		return false, shiftassign.ErrSaveInProgress
	}

	sel := *c.selection
	mk := sel.MonthKey()
	gen := c.generation
	snapshot := c.set[mk].Compact()
	snapshotEdits := c.edits
	c.saving = true
	c.state = StateSaving
	c.mu.Unlock()

	created, err := c.store.SaveAssignments(ctx, sel.ProjectID, mk, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.saving = false
	if gen != c.generation {
		// selection changed meanwhile; the write still happened
		return created, err
	}
	c.state = StateReady

	if err != nil {
		c.lastErr = fmt.Errorf("save assignments: %w", err)
		return false, c.lastErr
	}
	c.savedEdits = snapshotEdits
	c.lastErr = nil
	return created, nil
}

// Rows returns the roster of the selected project in directory order
func (c *Controller) Rows() []employee.Employee {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rowsLocked()
}

func (c *Controller) rowsLocked() []employee.Employee {
	p, ok := c.projectLocked()
	if !ok {
		return []employee.Employee{}
	}
	return p.Roster(c.employees)
}

func (c *Controller) projectLocked() (project.Project, bool) {
	if c.selection == nil {
		return project.Project{}, false
	}
	for _, p := range c.projects {
		if p.ID == c.selection.ProjectID {
			return p, true
		}
	}
	return project.Project{}, false
}

// Columns returns "1".."N" for the selected month
func (c *Controller) Columns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection == nil {
		return []string{}
	}
	return calendar.DayColumns(c.selection.Year, c.selection.Month)
}

// Cell returns the stored value of a cell of the selected month
func (c *Controller) Cell(employeeID, day string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection == nil {
		return ""
	}
	return shiftassign.GetCell(c.set, c.selection.MonthKey(), employeeID, day)
}

// Assignments returns a copy of the selected month
func (c *Controller) Assignments() shiftassign.Assignments {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection == nil {
		return shiftassign.Assignments{}
	}
	return c.set[c.selection.MonthKey()].Clone()
}

// Export serializes the in-memory grid. The store is never contacted.
func (c *Controller) Export() (export.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection == nil {
		return export.Document{}, shiftassign.ErrNoSelection
	}
	sel := *c.selection
	return shiftassign.BuildDocument(c.rowsLocked(), sel.Year, sel.Month, c.set[sel.MonthKey()]), nil
}

// ExportTo writes the grid to w in the given format and returns the suggested file name
func (c *Controller) ExportTo(w io.Writer, format shiftassign.ExportFormat) (string, error) {
	doc, err := c.Export()
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	prev := c.state
	c.state = StateExporting
	sel := *c.selection
	name := sel.ProjectID
	if p, ok := c.projectLocked(); ok {
		name = p.Name
	}
	c.mu.Unlock()

	err = format.Write(w, doc)

	c.mu.Lock()
	if c.state == StateExporting {
		c.state = prev
	}
	c.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("export grid: %w", err)
	}
	return export.FileName(name, sel.MonthKey().String(), format.Extension()), nil
}

// CurrentShift classifies now in the controller's location
func (c *Controller) CurrentShift(now time.Time) (calendar.ShiftWindow, string) {
	w := calendar.CurrentShiftWindow(now.In(c.loc))
	return w, w.TimeRange()
}

// Dirty reports unsaved edits in the selected month
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.edits != c.savedEdits
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Selection returns the current selection, false when nothing is selected
func (c *Controller) Selection() (Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection == nil {
		return Selection{}, false
	}
	return *c.selection, true
}

// LastError returns the last load or save failure, nil after a successful save or a new selection
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

func (c *Controller) Employees() []employee.Employee {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]employee.Employee(nil), c.employees...)
}

func (c *Controller) Projects() []project.Project {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]project.Project(nil), c.projects...)
}
