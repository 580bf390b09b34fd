package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/handler/http/response"
)

const keepaliveInterval = 30 * time.Second

type DashboardHandler interface {
	// GetStats handles GET /stats?monthYear=YYYY-MM
	GetStats(w http.ResponseWriter, r *http.Request)
	// Stream handles GET /stats/stream, an SSE feed of dashboard-update events
	Stream(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	keepalive        time.Duration
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		keepalive:        keepaliveInterval,
	}
}

func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetStats(r.Context(), r.URL.Query().Get("monthYear"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *dashboardHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.dashboardService.Subscribe(r.Context())
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")

	// first frame carries the current stats so clients need no extra request
	if stats, err := h.dashboardService.GetStats(r.Context(), ""); err == nil {
		writeEvent(w, dashboard.UpdateEvent, stats)
	} else {
		slog.Warn("failed to load initial dashboard stats", "error", err)
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode SSE payload", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
