// Package client talks to the shift board REST API and backs the grid
// controller for command line use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/service/grid"
)

const defaultTimeout = 15 * time.Second

// APIError is a non 2xx reply of the API
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap exposes field errors of 422 replies as validator.ValidationErrors
func (e *APIError) Unwrap() error {
	if e.Status != http.StatusUnprocessableEntity || len(e.Details) == 0 {
		return nil
	}
	var errs validator.ValidationErrors
	for field, msg := range e.Details {
		errs.Add(field, msg)
	}
	return errs
}

// Client is safe for concurrent use
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var _ grid.Store = (*Client)(nil)

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API url %q: scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.String() + "/api/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer res.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(res.Body).Decode(&env)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func (c *Client) LoadAssignments(ctx context.Context, projectID string, monthKey calendar.MonthKey) (shiftassign.Assignments, error) {
	var resp shiftassign.AssignmentsResponse
	err := c.do(ctx, http.MethodGet, c.endpoint("shiftAssignments", projectID, monthKey.String()), nil, &resp)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, shiftassign.ErrAssignmentsNotFound
		}
		return nil, err
	}
	if resp.UpdatedAt == nil {
		return nil, shiftassign.ErrAssignmentsNotFound
	}
	return resp.Assignments, nil
}

func (c *Client) SaveAssignments(ctx context.Context, projectID string, monthKey calendar.MonthKey, a shiftassign.Assignments) (bool, error) {
	if a == nil {
		a = shiftassign.Assignments{}
	}
	req := shiftassign.SaveRequest{
		ProjectID:   projectID,
		MonthYear:   monthKey.String(),
		Assignments: a,
	}
	var resp shiftassign.SaveResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("shiftAssignments"), req, &resp); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return false, fmt.Errorf("%w: %s", shiftassign.ErrProjectNotFound, projectID)
		}
		return false, err
	}
	return resp.Inserted, nil
}

// DeleteAssignments clears a saved project month
func (c *Client) DeleteAssignments(ctx context.Context, projectID string, monthKey calendar.MonthKey) error {
	err := c.do(ctx, http.MethodDelete, c.endpoint("shiftAssignments", projectID, monthKey.String()), nil, nil)
	if isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%w: %s %s", shiftassign.ErrAssignmentsNotFound, projectID, monthKey)
	}
	return err
}

func (c *Client) LoadEmployees(ctx context.Context) ([]employee.Employee, error) {
	var list []employee.EmployeeResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("employees"), nil, &list); err != nil {
		return nil, err
	}
	out := make([]employee.Employee, 0, len(list))
	for _, r := range list {
		out = append(out, employee.Employee{
			ID:           r.ID,
			Name:         r.Name,
			Gender:       employee.Gender(r.Gender),
			Status:       employee.Status(r.Status),
			Department:   r.Department,
			Project:      r.Project,
			ProfileImage: r.ProfileImage,
			CreatedAt:    parseTimestamp(r.CreatedAt),
			UpdatedAt:    parseTimestamp(r.UpdatedAt),
		})
	}
	return out, nil
}

func (c *Client) LoadProjects(ctx context.Context) ([]project.Project, error) {
	var list []project.ProjectResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint("projects"), nil, &list); err != nil {
		return nil, err
	}
	out := make([]project.Project, 0, len(list))
	for _, r := range list {
		out = append(out, project.Project{
			ID:          r.ID,
			Name:        r.Name,
			Department:  r.Department,
			EmployeeIDs: r.Employees,
			CreatedAt:   parseTimestamp(r.CreatedAt),
			UpdatedAt:   parseTimestamp(r.UpdatedAt),
		})
	}
	return out, nil
}

// DownloadExport fetches the server rendered spreadsheet and returns its file name
func (c *Client) DownloadExport(ctx context.Context, w io.Writer, projectID string, monthKey calendar.MonthKey, format shiftassign.ExportFormat) (string, error) {
	endpoint := c.endpoint("shiftAssignments", projectID, monthKey.String(), "export") + "?format=" + url.QueryEscape(string(format))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: res.StatusCode}
		var env envelope
		if json.NewDecoder(res.Body).Decode(&env) == nil && env.Error != nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		return "", apiErr
	}

	if _, err := io.Copy(w, res.Body); err != nil {
		return "", fmt.Errorf("read export: %w", err)
	}
	return attachmentName(res.Header.Get("Content-Disposition")), nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func attachmentName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
