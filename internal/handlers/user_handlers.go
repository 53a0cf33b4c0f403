package handlers

import (
	"net/http"

	"bayou-blog/internal/engine/actors"
)

// UpdateProfileRequest carries the mutable profile fields. Empty fields are
// left untouched.
type UpdateProfileRequest struct {
	Username       string `json:"userName"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// HandleUpdateProfile lets a user (or an admin) change username, email or
// profile picture.
func (s *Server) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		targetID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req UpdateProfileRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.UpdateProfileMsg{
			Principal:   p,
			TargetID:    targetID,
			NewUsername: req.Username,
			NewEmail:    req.Email,
			NewPicture:  req.ProfilePicture,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    result,
		})
	}
}

// HandleDeleteUser removes an account. Owner or admin only; the account's
// posts and comments stay behind.
func (s *Server) HandleDeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		targetID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		if _, appErr := s.ask(s.Engine.GetUserActor(), &actors.DeleteUserMsg{
			Principal: p,
			TargetID:  targetID,
		}); appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "User has been deleted",
		})
	}
}

// HandleGetAllUsers lists every account. Admin only, routed behind
// RequireRole.
func (s *Server) HandleGetAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.GetAllUsersMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"users":   result,
		})
	}
}

// HandleUpdateRole promotes or demotes an account. Admin only.
func (s *Server) HandleUpdateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		targetID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req UpdateRoleRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.UpdateRoleMsg{
			Principal: p,
			TargetID:  targetID,
			Role:      req.Role,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    result,
		})
	}
}

// HandleUpdateStatus suspends or reactivates an account. Admin only; a
// suspension bites at the target's next login.
func (s *Server) HandleUpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		targetID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req UpdateStatusRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.UpdateStatusMsg{
			Principal: p,
			TargetID:  targetID,
			Status:    req.Status,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    result,
		})
	}
}

// HandleResetPassword sets a new password for an account. Admin only.
func (s *Server) HandleResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		targetID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req ResetPasswordRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		if _, appErr := s.ask(s.Engine.GetUserActor(), &actors.ResetPasswordMsg{
			Principal:   p,
			TargetID:    targetID,
			NewPassword: req.Password,
		}); appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Password has been reset",
		})
	}
}
