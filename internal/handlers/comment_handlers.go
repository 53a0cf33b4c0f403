package handlers

import (
	"net/http"

	"bayou-blog/internal/engine/actors"
	"bayou-blog/internal/models"
	"bayou-blog/internal/websocket"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a new comment
type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

type EditCommentRequest struct {
	Content string `json:"content"`
}

// HandleCreateComment creates a comment on an existing post.
func (s *Server) HandleCreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}

		var req CreateCommentRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			s.respondBadRequest(w, "Invalid postId")
			return
		}

		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.CreateCommentMsg{
			Principal: p,
			PostID:    postID,
			Content:   req.Content,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		comment := result.(*models.Comment)
		s.Hub.PublishEvent(websocket.EventCommentCreated, comment)

		s.respondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"comment": comment,
		})
	}
}

// HandleGetPostComments lists a post's comments, newest first.
func (s *Server) HandleGetPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := s.pathUUID(w, r, "postId")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{PostID: postID})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"comments": result,
		})
	}
}

// HandleEditComment edits a comment. Owner or admin only.
func (s *Server) HandleEditComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		commentID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		var req EditCommentRequest
		if err := decodeBody(r, &req); err != nil {
			s.respondBadRequest(w, "Invalid request body")
			return
		}

		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.EditCommentMsg{
			Principal: p,
			CommentID: commentID,
			Content:   req.Content,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"comment": result,
		})
	}
}

// HandleDeleteComment removes a comment. Owner or admin only.
func (s *Server) HandleDeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		commentID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		if _, appErr := s.ask(s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{
			Principal: p,
			CommentID: commentID,
		}); appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Comment has been deleted",
		})
	}
}

// HandleToggleLike flips the caller's like on a comment and returns it with
// the recomputed count.
func (s *Server) HandleToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		commentID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.ToggleLikeMsg{
			Principal: p,
			CommentID: commentID,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"comment": result,
		})
	}
}

// HandleFlagComment adds the caller to a comment's flag set.
func (s *Server) HandleFlagComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		commentID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.FlagCommentMsg{
			Principal: p,
			CommentID: commentID,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"comment": result,
		})
	}
}

// HandleUnflagComment removes the caller from a comment's flag set.
func (s *Server) HandleUnflagComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(w, r)
		if !ok {
			return
		}
		commentID, ok := s.pathUUID(w, r, "id")
		if !ok {
			return
		}

		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.UnflagCommentMsg{
			Principal: p,
			CommentID: commentID,
		})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"comment": result,
		})
	}
}

// HandleGetFlaggedComments lists comments with a non-empty flag set. Admin
// only.
func (s *Server) HandleGetFlaggedComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, appErr := s.ask(s.Engine.GetCommentActor(), &actors.GetFlaggedCommentsMsg{})
		if appErr != nil {
			s.respondAppError(w, appErr)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"comments": result,
		})
	}
}
