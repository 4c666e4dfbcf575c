package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status   string    `json:"status"` // "ok" or "stalled"
	LastScan time.Time `json:"last_scan,omitempty"`
}

// staleScanThreshold marks the loop as stalled when the most recent
// completed scan is older than this.
const staleScanThreshold = 5 * time.Minute

// handleHealth returns an http.HandlerFunc for GET /health.
// Returns 200 while the scan loop is making progress, 503 when the
// last completed scan is older than the staleness threshold.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{Status: "ok"}

		if g.stats != nil {
			snap := g.stats.Snapshot()
			resp.LastScan = snap.LastScan
			if !snap.LastScan.IsZero() && time.Since(snap.LastScan) > staleScanThreshold {
				resp.Status = "stalled"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
