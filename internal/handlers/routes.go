package handlers

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"bayou-blog/internal/middleware"
	"bayou-blog/internal/models"
)

// chain applies middlewares right to left, so the first listed runs first.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Recover converts a handler panic into a 500 instead of killing the server.
func (s *Server) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panic", "panic", rec, "path", r.URL.Path, "stack", string(debug.Stack()))
				s.Metrics.IncrementErrors()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Routes builds the full API surface. The rate limiter covers the
// credential endpoints; everything else sits behind Authenticate, with the
// admin routes additionally behind RequireRole.
func (s *Server) Routes(limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	authn := s.Auth.Authenticate
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Public
	mux.Handle("POST /api/signup", chain(s.HandleSignup(), limiter.Middleware))
	mux.Handle("POST /api/login", chain(s.HandleLogin(), limiter.Middleware))
	mux.Handle("GET /api/health", s.HandleHealth())
	mux.Handle("GET /api/ws", s.HandleWebSocket())

	// Users
	mux.Handle("GET /api/me", chain(s.HandleMe(), authn))
	mux.Handle("PUT /api/user/{id}", chain(s.HandleUpdateProfile(), authn))
	mux.Handle("DELETE /api/user/{id}", chain(s.HandleDeleteUser(), authn))
	mux.Handle("GET /api/All", chain(s.HandleGetAllUsers(), authn, adminOnly))
	mux.Handle("PUT /api/role/{id}", chain(s.HandleUpdateRole(), authn, adminOnly))
	mux.Handle("PATCH /api/status/{id}", chain(s.HandleUpdateStatus(), authn, adminOnly))
	mux.Handle("PATCH /api/reset-password/{id}", chain(s.HandleResetPassword(), authn, adminOnly))

	// Posts
	mux.Handle("POST /api/posts", chain(s.HandleCreatePost(), authn))
	mux.Handle("GET /api/posts", chain(s.HandleListPosts(), authn))
	mux.Handle("GET /api/posts/{id}", chain(s.HandleGetPost(), authn))
	mux.Handle("PUT /api/posts/{id}", chain(s.HandleUpdatePost(), authn))
	mux.Handle("DELETE /api/posts/{id}", chain(s.HandleDeletePost(), authn))
	mux.Handle("PATCH /api/posts/{id}/flag", chain(s.HandleFlagPost(), authn))
	mux.Handle("PATCH /api/posts/{id}/unflag", chain(s.HandleUnflagPost(), authn))
	mux.Handle("GET /api/flagged-posts", chain(s.HandleGetFlaggedPosts(), authn, adminOnly))

	// Comments
	mux.Handle("POST /api/comments", chain(s.HandleCreateComment(), authn))
	mux.Handle("GET /api/comments/{postId}", chain(s.HandleGetPostComments(), authn))
	mux.Handle("PUT /api/comments/{id}", chain(s.HandleEditComment(), authn))
	mux.Handle("DELETE /api/comments/{id}", chain(s.HandleDeleteComment(), authn))
	mux.Handle("PATCH /api/comments/{id}/toggle-like", chain(s.HandleToggleLike(), authn))
	mux.Handle("PATCH /api/comments/{id}/flag", chain(s.HandleFlagComment(), authn))
	mux.Handle("PATCH /api/comments/{id}/unflag", chain(s.HandleUnflagComment(), authn))
	mux.Handle("GET /api/flagged-comments", chain(s.HandleGetFlaggedComments(), authn, adminOnly))

	// Audit
	mux.Handle("GET /api/audit-logs", chain(s.HandleGetAuditLogs(), authn, adminOnly))
	mux.Handle("DELETE /api/audit-logs", chain(s.HandleClearAuditLogs(), authn, adminOnly))

	return mux
}
