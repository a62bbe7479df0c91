package app

import (
	"net/http"
)

type healthStatus struct {
	Status  string `json:"status"`
	Breaker string `json:"breaker"`
	MountID string `json:"mount_id,omitempty"`
	Loaded  bool   `json:"loaded"`
}

// ServeHealth handles GET /healthz. The process is alive whenever it
// answers; "degraded" flags an open upstream breaker.
func (h *Handler) ServeHealth(w http.ResponseWriter, _ *http.Request) {
	id, loaded, _ := h.current()
	st := healthStatus{
		Status:  "ok",
		Breaker: h.Dash.BreakerState().String(),
		MountID: id,
		Loaded:  loaded,
	}
	if st.Breaker != "closed" {
		st.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, st)
}

// ServeReady handles GET /readyz: 200 only once the current view has data.
func (h *Handler) ServeReady(w http.ResponseWriter, _ *http.Request) {
	_, loaded, _ := h.current()
	status := http.StatusOK
	if !loaded {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"ready": loaded})
}
