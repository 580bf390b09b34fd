package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http/response"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/export"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/sse"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/repository/sqlite"
	dashboardService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/employee"
	projectService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/project"
	shiftAssignService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/shiftassign"
	staffService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/staff"
	userService "github.com/kushanirosha/tws-attendance-backend-go/internal/service/user"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewSQLiteMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	employeeRepo := sqlite.NewEmployeeRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	assignmentRepo := sqlite.NewShiftAssignmentRepository(db)
	dashboardRepo := sqlite.NewDashboardRepository(db)

	loc, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, projectRepo, assignmentRepo, sse.NewHub(), loc)
	shiftSvc := shiftAssignService.NewShiftAssignService(assignmentRepo, projectRepo, employeeRepo, dashboardSvc)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)

	return NewRouter(
		RouterConfig{},
		NewEmployeeHandler(employeeSvc),
		NewProjectHandler(projectService.NewProjectService(projectRepo, employeeRepo)),
		NewUserHandler(userService.NewUserService(userRepo)),
		NewShiftAssignmentHandler(shiftSvc),
		NewDashboardHandler(dashboardSvc),
		NewStaffHandler(staffService.NewStaffService(employeeSvc)),
	)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// decodeData re-decodes the envelope payload into v
func decodeData(t *testing.T, resp response.Response, v any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func seedProject(t *testing.T, h http.Handler) string {
	t.Helper()
	for _, e := range []map[string]any{
		{"id": "E1", "name": "Kasun", "gender": "Male", "department": "IT"},
		{"id": "E2", "name": "Nimali", "gender": "Female", "department": "IT"},
	} {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/employees", e)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec, resp := doJSON(t, h, http.MethodPost, "/api/projects", map[string]any{
		"name":       "STL",
		"department": "IT",
		"employees":  `["E2","E1"]`,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p struct {
		ID        string   `json:"id"`
		Employees []string `json:"employees"`
	}
	decodeData(t, resp, &p)
	assert.Equal(t, []string{"E2", "E1"}, p.Employees)
	return p.ID
}

func TestEmployeeHandler(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/employees", map[string]any{"id": "E1", "name": "Kasun", "gender": "Male", "department": "IT"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := doJSON(t, h, http.MethodPost, "/api/employees", map[string]any{"id": "E1", "name": "Again", "gender": "Male", "department": "IT"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)

	rec, resp = doJSON(t, h, http.MethodPost, "/api/employees", map[string]any{"id": "E2", "gender": "Other"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Error.Details, "gender")
	assert.Contains(t, resp.Error.Details, "name")

	rec, resp = doJSON(t, h, http.MethodPatch, "/api/employees/E1", map[string]any{"status": "Inactive"})
	require.Equal(t, http.StatusOK, rec.Code)
	var e struct {
		Status string `json:"status"`
		Name   string `json:"name"`
	}
	decodeData(t, resp, &e)
	assert.Equal(t, "Inactive", e.Status)
	assert.Equal(t, "Kasun", e.Name)

	rec, resp = doJSON(t, h, http.MethodGet, "/api/employees?status=Inactive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.TotalItems)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/employees/E1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/employees/E1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectHandler(t *testing.T) {
	h := newTestRouter(t)
	id := seedProject(t, h)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/projects", map[string]any{"name": "STL", "department": "IT"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/projects", map[string]any{"name": "Ghost", "department": "IT", "employees": []string{"E9"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/projects", map[string]any{"name": "Broken", "department": "IT", "employees": 12})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := doJSON(t, h, http.MethodPut, "/api/projects/"+id, map[string]any{"employees": []string{"E1"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p struct {
		Employees []string `json:"employees"`
	}
	decodeData(t, resp, &p)
	assert.Equal(t, []string{"E1"}, p.Employees)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/projects/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler(t *testing.T) {
	h := newTestRouter(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/api/users", map[string]any{
		"employee_id": "E1", "name": "Kasun", "password": "secret123", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret123")

	var u struct {
		EmployeeID string `json:"employee_id"`
		Role       string `json:"role"`
	}
	decodeData(t, resp, &u)
	assert.Equal(t, "E1", u.EmployeeID)
	assert.Equal(t, "admin", u.Role)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/users", map[string]any{
		"employee_id": "E1", "name": "Kasun", "password": "secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = doJSON(t, h, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), resp.Meta.TotalItems)
}

func TestShiftAssignmentHandler(t *testing.T) {
	h := newTestRouter(t)
	id := seedProject(t, h)

	// nothing saved yet
	rec, resp := doJSON(t, h, http.MethodGet, "/api/shiftAssignments/"+id+"/2025-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Assignments map[string]map[string]string `json:"assignments"`
	}
	decodeData(t, resp, &got)
	assert.Empty(t, got.Assignments)

	body := map[string]any{
		"projectId":   id,
		"monthYear":   "2025-10",
		"assignments": map[string]map[string]string{"E1": {"1": "RD", "2": "09:00-17:00"}},
	}
	rec, resp = doJSON(t, h, http.MethodPost, "/api/shiftAssignments", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved struct {
		Inserted bool `json:"inserted"`
	}
	decodeData(t, resp, &saved)
	assert.True(t, saved.Inserted)

	rec, resp = doJSON(t, h, http.MethodPost, "/api/shiftAssignments", body)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, resp, &saved)
	assert.False(t, saved.Inserted)

	rec, resp = doJSON(t, h, http.MethodGet, "/api/shiftAssignments/"+id+"/2025-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, resp, &got)
	assert.Equal(t, map[string]map[string]string{"E1": {"1": "RD", "2": "09:00-17:00"}}, got.Assignments)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/shiftAssignments/"+id+"/2025-13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = doJSON(t, h, http.MethodPost, "/api/shiftAssignments", map[string]any{
		"projectId":   id,
		"monthYear":   "2025-02",
		"assignments": map[string]map[string]string{"E1": {"30": "RD", "1": "morning"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Error.Details, "assignments.E1.30")
	assert.Contains(t, resp.Error.Details, "assignments.E1.1")

	rec, _ = doJSON(t, h, http.MethodPost, "/api/shiftAssignments", map[string]any{
		"projectId": "missing", "monthYear": "2025-10", "assignments": map[string]any{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShiftAssignmentHandler_Export(t *testing.T) {
	h := newTestRouter(t)
	id := seedProject(t, h)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/shiftAssignments", map[string]any{
		"projectId":   id,
		"monthYear":   "2025-10",
		"assignments": map[string]map[string]string{"E1": {"3": "RD"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/shiftAssignments/"+id+"/2025-10/export?format=csv", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=STL_2025-10_Schedule.csv", rec.Header().Get("Content-Disposition"))

	doc, err := export.ReadCSV(rec.Body)
	require.NoError(t, err)
	require.Len(t, doc.Headers, 33)
	require.Len(t, doc.Rows, 2)
	// directory order, not roster order
	assert.Equal(t, "E1", doc.Rows[0][0])
	assert.Equal(t, "E2", doc.Rows[1][0])
	assert.Equal(t, "RD", doc.Rows[0][4])
	assert.Equal(t, "-", doc.Rows[1][4])

	req = httptest.NewRequest(http.MethodGet, "/api/shiftAssignments/"+id+"/2025-10/export", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	xlsx, err := export.ReadXLSX(rec.Body)
	require.NoError(t, err)
	assert.Len(t, xlsx.Rows, 2)

	req = httptest.NewRequest(http.MethodGet, "/api/shiftAssignments/"+id+"/2025-10/export?format=pdf", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_GetStats(t *testing.T) {
	h := newTestRouter(t)
	seedProject(t, h)

	rec, resp := doJSON(t, h, http.MethodGet, "/api/stats?monthYear=2025-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats dashboard.StatsResponse
	decodeData(t, resp, &stats)
	assert.Equal(t, "2025-10", stats.MonthYear)
	assert.Equal(t, int64(2), stats.Employees.Active.Total)
	require.Len(t, stats.Projects, 1)
	assert.Equal(t, 2, stats.Projects[0].Headcount)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/stats?monthYear=October", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if name != "" {
				return name, data
			}
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestDashboardHandler_Stream(t *testing.T) {
	h := newTestRouter(t)
	id := seedProject(t, h)

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/stats/stream", nil)
	require.NoError(t, err)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	reader := bufio.NewReader(res.Body)
	name, _ := readEvent(t, reader)
	assert.Equal(t, "connected", name)
	name, _ = readEvent(t, reader)
	assert.Equal(t, dashboard.UpdateEvent, name)

	// a save pushes fresh stats to listeners
	rec, _ := doJSON(t, h, http.MethodPost, "/api/shiftAssignments", map[string]any{
		"projectId": id, "monthYear": "2025-10", "assignments": map[string]any{},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	name, data := readEvent(t, reader)
	assert.Equal(t, dashboard.UpdateEvent, name)
	var stats dashboard.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(data), &stats))
	require.Len(t, stats.Projects, 1)
}

func TestShiftAssignmentHandler_Delete(t *testing.T) {
	h := newTestRouter(t)
	id := seedProject(t, h)

	rec, _ := doJSON(t, h, http.MethodDelete, "/api/shiftAssignments/"+id+"/2025-10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/shiftAssignments", map[string]any{
		"projectId":   id,
		"monthYear":   "2025-10",
		"assignments": map[string]map[string]string{"E1": {"1": "RD"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/shiftAssignments/"+id+"/2025-10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp := doJSON(t, h, http.MethodGet, "/api/shiftAssignments/"+id+"/2025-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Assignments map[string]map[string]string `json:"assignments"`
		UpdatedAt   *string                      `json:"updatedAt"`
	}
	decodeData(t, resp, &got)
	assert.Empty(t, got.Assignments)
	assert.Nil(t, got.UpdatedAt)

	// saving again creates the month afresh
	rec, _ = doJSON(t, h, http.MethodPost, "/api/shiftAssignments", map[string]any{
		"projectId": id, "monthYear": "2025-10", "assignments": map[string]any{},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/shiftAssignments/"+id+"/2025-13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffHandler(t *testing.T) {
	h := newTestRouter(t)
	seedProject(t, h)

	rec, resp := doJSON(t, h, http.MethodGet, "/api/others/drivers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(0), resp.Meta.TotalItems)

	rec, resp = doJSON(t, h, http.MethodPost, "/api/others/drivers", map[string]any{"id": "D1", "name": "Sunil", "gender": "Male"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Project    string `json:"project"`
		Department string `json:"department"`
	}
	decodeData(t, resp, &created)
	assert.Equal(t, "DRIVER", created.Project)
	assert.Equal(t, "Transport Services", created.Department)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/others/cleaning", map[string]any{"id": "C1", "name": "Mala", "gender": "Female"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp = doJSON(t, h, http.MethodGet, "/api/others", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), resp.Meta.TotalItems)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/others/cleaning/D1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	// shift board employees are not staff
	rec, _ = doJSON(t, h, http.MethodGet, "/api/others/cleaning/E1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = doJSON(t, h, http.MethodGet, "/api/others/security", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = doJSON(t, h, http.MethodPut, "/api/others/drivers/D1", map[string]any{"status": "Inactive"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &updated)
	assert.Equal(t, "Inactive", updated.Status)

	rec, resp = doJSON(t, h, http.MethodPut, "/api/others/drivers/D1", map[string]any{"project": "JANITOR"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, resp.Error.Details, "project")

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/others/drivers/D1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, h, http.MethodGet, "/api/employees/D1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
