package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/omarawad11/finsched/internal/scheduler"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime    float64            `json:"uptime_seconds"`
	Scheduler scheduler.Snapshot `json:"scheduler"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime: time.Since(g.startedAt).Truncate(time.Second).Seconds(),
		}
		if g.stats != nil {
			resp.Scheduler = g.stats.Snapshot()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
