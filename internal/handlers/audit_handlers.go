package handlers

import (
	"net/http"

	"bayou-blog/internal/utils"
)

// HandleGetAuditLogs returns the audit trail, newest first. Admin only.
func (s *Server) HandleGetAuditLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Auditor.List()
		if err != nil {
			s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to read audit log", err))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"entries": entries,
		})
	}
}

// HandleClearAuditLogs truncates the audit trail. Admin only.
func (s *Server) HandleClearAuditLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Auditor.Clear(); err != nil {
			s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to clear audit log", err))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Audit log cleared",
		})
	}
}
