// Package handlers exposes the HTTP surface. Handlers decode requests,
// forward messages to the entity actors and translate replies into JSON
// responses; all business rules live behind the actor boundary.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"bayou-blog/internal/audit"
	"bayou-blog/internal/database"
	"bayou-blog/internal/engine"
	"bayou-blog/internal/middleware"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"
	"bayou-blog/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Auth           *middleware.Auth
	Auditor        *audit.Recorder
	Store          database.Store
	Metrics        *utils.MetricsCollector
	Hub            *websocket.Hub
	RequestTimeout time.Duration
	MetricsEnabled bool
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	auth *middleware.Auth,
	auditor *audit.Recorder,
	store database.Store,
	metrics *utils.MetricsCollector,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Auth:           auth,
		Auditor:        auditor,
		Store:          store,
		Metrics:        metrics,
		Hub:            hub,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and waits for the reply. A future timeout
// surfaces as an AppError so the response mapping stays uniform.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, *utils.AppError) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		slog.Error("actor request failed", "error", err)
		return nil, utils.NewActorTimeoutError("engine")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	s.Metrics.IncrementRequests()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondAppError(w http.ResponseWriter, appErr *utils.AppError) {
	s.Metrics.IncrementErrors()
	status := utils.AppErrorToHTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", appErr.Code, "message", appErr.Message, "origin", appErr.Origin)
	}
	s.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": appErr.Message,
	})
}

func (s *Server) respondBadRequest(w http.ResponseWriter, message string) {
	s.respondAppError(w, utils.NewValidationError(message))
}

// principal pulls the authenticated caller out of the request context. The
// Authenticate middleware guarantees it is present on protected routes.
func (s *Server) principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		s.respondAppError(w, utils.NewAppError(utils.ErrUnauthenticated, "Authentication required", nil))
		return models.Principal{}, false
	}
	return p, true
}

// pathUUID parses the named path value as a UUID.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.respondBadRequest(w, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
