package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports store reachability and entity counts. With metrics
// enabled the payload also carries the collector snapshot.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := "healthy"
		users, posts, comments, err := s.Store.Counts(ctx)
		if err != nil {
			status = "degraded"
		}

		payload := map[string]interface{}{
			"success": true,
			"status":  status,
			"time":    time.Now().UTC(),
			"counts": map[string]int64{
				"users":    users,
				"posts":    posts,
				"comments": comments,
			},
		}

		if s.MetricsEnabled {
			requests, errors, uptime, ops := s.Metrics.Snapshot()
			payload["metrics"] = map[string]interface{}{
				"requests":   requests,
				"errors":     errors,
				"uptime":     uptime.String(),
				"operations": ops,
			}
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		s.respondJSON(w, code, payload)
	}
}
