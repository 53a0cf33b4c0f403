package handlers

import (
	"log/slog"
	"net/http"

	"bayou-blog/internal/engine/actors"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Username       string `json:"userName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profilePicture"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup registers a new account and issues a token for it.
func (s *Server) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Username:       req.Username,
			Email:          req.Email,
			Password:       req.Password,
			ProfilePicture: req.ProfilePicture,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		user := result.(*models.User)
		token, err := s.Auth.GenerateToken(user.ID, user.Role)
		if err != nil {
			slog.Error("failed to generate token", "error", err)
			s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to generate auth token", err))
			return
		}

		s.respondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"token":   token,
			"user":    user,
		})
	}
}

// HandleLogin verifies credentials and issues a fresh token carrying the
// user's current role.
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		user := result.(*models.User)
		token, err := s.Auth.GenerateToken(user.ID, user.Role)
		if err != nil {
			slog.Error("failed to generate token", "error", err)
			s.respondAppError(w, utils.NewAppError(utils.ErrDatabase, "Failed to generate auth token", err))
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"token":   token,
			"user":    user,
		})
	}
}

// HandleMe returns the authenticated caller's profile.
func (s *Server) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetUserActor(), &actors.GetUserProfileMsg{UserID: p.ID})
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
