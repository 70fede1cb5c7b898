// Package status reports service capabilities so a client can tell which
// optional paths (premium model, persistence) are live.
package status

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Status         string `json:"status"`
	Premium        bool   `json:"premium_available"`
	ActiveProvider string `json:"active_provider,omitempty"`
	Persistence    bool   `json:"persistence_enabled"`
}

type Handler struct {
	premium        bool
	activeProvider string
	persistence    bool
}

func NewHandler(premium bool, activeProvider string, persistence bool) *Handler {
	return &Handler{
		premium:        premium,
		activeProvider: activeProvider,
		persistence:    persistence,
	}
}

// HandleStatus serves the capability snapshot.
// GET /api/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := Response{
		Status:      "ok",
		Premium:     h.premium,
		Persistence: h.persistence,
	}
	if h.premium {
		resp.ActiveProvider = h.activeProvider
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
