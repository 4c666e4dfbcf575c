package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// taskJSON is a serializable task snapshot.
type taskJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Role        string `json:"role"`
	NextRun     string `json:"next_run"`
}

// runJSON is a serializable run-history row.
type runJSON struct {
	ID         int64  `json:"id"`
	TaskID     int64  `json:"task_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	ResultSize int    `json:"result_size"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

const apiTimeLayout = "2006-01-02T15:04:05Z"

// defaultRunLimit bounds GET /api/runs when no limit is given.
const defaultRunLimit = 50

// handleListTasks returns all scheduled tasks as JSON.
func (g *Gateway) handleListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.admin == nil {
			http.Error(w, "task store unavailable", http.StatusServiceUnavailable)
			return
		}

		list, err := g.admin.ListTasks(r.Context())
		if err != nil {
			g.logger.Error("gateway: list tasks failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		tasks := make([]taskJSON, 0, len(list))
		for _, t := range list {
			tasks = append(tasks, taskJSON{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				Frequency:   t.Frequency,
				Role:        t.Role,
				NextRun:     t.NextRun.UTC().Format(apiTimeLayout),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tasks)
	}
}

// handleListRuns returns the most recent run-history rows as JSON.
// The optional ?limit= query parameter caps the row count.
func (g *Gateway) handleListRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.runs == nil {
			http.Error(w, "run history unavailable", http.StatusServiceUnavailable)
			return
		}

		limit := defaultRunLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		list, err := g.runs.RecentRuns(r.Context(), limit)
		if err != nil {
			g.logger.Error("gateway: list runs failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		runs := make([]runJSON, 0, len(list))
		for _, run := range list {
			runs = append(runs, runJSON{
				ID:         run.ID,
				TaskID:     run.TaskID,
				Status:     string(run.Status),
				Error:      run.Error,
				ResultSize: run.ResultSize,
				StartedAt:  formatAPITime(run.StartedAt),
				FinishedAt: formatAPITime(run.FinishedAt),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(runs)
	}
}

func formatAPITime(t time.Time) string {
	return t.UTC().Format(apiTimeLayout)
}
