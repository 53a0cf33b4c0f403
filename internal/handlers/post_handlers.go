package handlers

import (
	"net/http"

	"bayou-blog/internal/engine/actors"
	"bayou-blog/internal/models"
	"bayou-blog/internal/websocket"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// UpdatePostRequest carries the mutable post fields. Empty fields are left
// untouched; a new title re-derives the slug, and an explicit slug overrides
// the derived one.
type UpdatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Slug     string `json:"slug"`
}

// HandleCreatePost creates a post owned by the caller.
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}

		var req CreatePostRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.CreatePostMsg{
			Principal: p,
			Title:     req.Title,
			Content:   req.Content,
			Image:     req.Image,
			Category:  req.Category,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		post := result.(*models.Post)
		s.Hub.PublishEvent(websocket.EventPostCreated, post)

		s.respondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"post":    post,
		})
	}
}

// HandleGetPost returns a single post by id.
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"post":    result,
		})
	}
}

// HandleListPosts lists all posts, newest first.
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.ListPostsMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"posts":   result,
		})
	}
}

// HandleUpdatePost edits a post. Owner or admin only.
func (s *Server) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		postID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req UpdatePostRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.UpdatePostMsg{
			Principal: p,
			PostID:    postID,
			Title:     req.Title,
			Content:   req.Content,
			Image:     req.Image,
			Category:  req.Category,
			Slug:      req.Slug,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"post":    result,
		})
	}
}

// HandleDeletePost removes a post and its comments. Owner or admin only.
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		postID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		if _, appErr := s.ask(s.Engine.GetPostActor(), &actors.DeletePostMsg{
			Principal: p,
			PostID:    postID,
		}); appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "The post has been deleted",
		})
	}
}

// HandleFlagPost adds the caller to a post's flag set.
func (s *Server) HandleFlagPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		postID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.FlagPostMsg{
			Principal: p,
			PostID:    postID,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"post":    result,
		})
	}
}

// HandleUnflagPost removes the caller from a post's flag set. Removing an
// absent flag still succeeds.
func (s *Server) HandleUnflagPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		postID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.UnflagPostMsg{
			Principal: p,
			PostID:    postID,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"post":    result,
		})
	}
}

// HandleGetFlaggedPosts lists posts with a non-empty flag set. Admin only.
func (s *Server) HandleGetFlaggedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, appErr := s.ask(s.Engine.GetPostActor(), &actors.GetFlaggedPostsMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"posts":   result,
		})
	}
}
