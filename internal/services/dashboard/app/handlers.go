package app

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

// Handler serves the dashboard over HTTP.
type Handler struct {
	Dash *Dashboard
	Log  *zap.Logger
}

func NewHandler(d *Dashboard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Dash: d, Log: logger}
}

// DashboardData is the JSON form of the current view.
type DashboardData struct {
	MountID string             `json:"mount_id"`
	Loaded  bool               `json:"loaded"`
	State   model.DisplayState `json:"state"`
}

func (h *Handler) current() (string, bool, model.DisplayState) {
	v := h.Dash.View()
	if v == nil {
		return "", false, model.DisplayState{}
	}
	return v.ID(), v.Loaded(), v.State()
}

// ServePage handles GET /. Rendering never issues a query.
func (h *Handler) ServePage(w http.ResponseWriter, _ *http.Request) {
	_, _, st := h.current()
	var buf bytes.Buffer
	if err := RenderState(&buf, h.Dash.Title(), st); err != nil {
		h.Log.Error("dashboard render failed", zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// ServeData handles GET /dashboard/data.
func (h *Handler) ServeData(w http.ResponseWriter, _ *http.Request) {
	id, loaded, st := h.current()
	writeJSON(w, http.StatusOK, DashboardData{MountID: id, Loaded: loaded, State: st})
}

// ServeRemount handles POST /dashboard/remount.
func (h *Handler) ServeRemount(w http.ResponseWriter, _ *http.Request) {
	v, err := h.Dash.Remount()
	if err != nil {
		h.Log.Error("dashboard remount failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"mount_id": v.ID()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
