package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/pipeline"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// ControlHandler exposes a running batch controller over HTTP.
// Implements the Handler interface for registration with a Router.
//
// Reads return JSON snapshots; commands are POST-only and map directly to the
// controller's Pause, Resume, and Cancel operations.
type ControlHandler struct {
	controller *pipeline.Controller
}

// NewControlHandler creates a control handler for the given controller.
func NewControlHandler(controller *pipeline.Controller) *ControlHandler {
	return &ControlHandler{controller: controller}
}

// Routes returns the HTTP routes this handler serves.
func (h *ControlHandler) Routes() []string {
	return []string{"/status", "/errors", "/items", "/pause", "/resume", "/cancel"}
}

// ServeHTTP dispatches control requests by path.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/status":
		h.handleStatus(w, r)
	case "/errors":
		h.handleErrors(w, r)
	case "/items":
		h.handleItems(w, r)
	case "/pause":
		h.handleCommand(w, r, h.controller.Pause)
	case "/resume":
		h.handleCommand(w, r, h.controller.Resume)
	case "/cancel":
		h.handleCommand(w, r, h.controller.Cancel)
	default:
		http.NotFound(w, r)
	}
}

func (h *ControlHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

func (h *ControlHandler) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := h.controller.Errors().Entries()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"entries": entries,
	})
}

func (h *ControlHandler) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items := h.controller.Items()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

func (h *ControlHandler) handleCommand(w http.ResponseWriter, r *http.Request, command func() error) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := command(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, shared.ErrNotProcessing) || errors.Is(err, shared.ErrNotPaused) || errors.Is(err, shared.ErrRunTerminal) {
			status = http.StatusConflict
		}

		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// LoggingMiddleware logs each request's method, path, status, and duration.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start),
			)
		})
	}
}

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
