package httpapp

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/dto"

	"github.com/go-chi/chi/v5"
)

// handleListComments godoc
//
//	@Summary		List comments
//	@Description	Paginated list ordered by id. filter matches the comment text or the author name.
//	@Tags			Comments
//	@Produce		json
//	@Param			page	query		int		false	"Page number (default 1)"
//	@Param			perPage	query		int		false	"Items per page, 1 to 50 (default 15)"
//	@Param			filter	query		string	false	"Substring of text or author name"
//	@Success		200		{object}	dto.Page[dto.CommentDetails]
//	@Failure		422		{object}	ErrorResponse	"Validation error"
//	@Router			/api/comments [get]
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseListQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.comments.List(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleGetComment godoc
//
//	@Summary	Get comment
//	@Tags		Comments
//	@Produce	json
//	@Param		commentId	path		int	true	"Comment ID"
//	@Success	200			{object}	dto.CommentDetails
//	@Failure	404			{object}	ErrorResponse	"Comment not found"
//	@Router		/api/comments/{commentId} [get]
func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.comments.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleCommentHistory godoc
//
//	@Summary		Comment history
//	@Description	Every recorded version of the comment, oldest first. Only the author may read it.
//	@Tags			Comments
//	@Produce		json
//	@Security		BearerAuth
//	@Param			commentId	path		int	true	"Comment ID"
//	@Success		200			{array}		dto.HistoryEntry
//	@Failure		401			{object}	ErrorResponse	"Authentication required"
//	@Failure		403			{object}	ErrorResponse	"Not the author"
//	@Failure		404			{object}	ErrorResponse	"Comment not found"
//	@Router			/api/comments/{commentId}/history [get]
func (s *Server) handleCommentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := commentID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	history, err := s.comments.History(r.Context(), principalFrom(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleCreateComment godoc
//
//	@Summary	Post a comment
//	@Tags		Comments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		comment	body		dto.CommentInput	true	"Comment text"
//	@Success	201		{object}	dto.CommentDetails
//	@Header		201		{string}	Location	"URL of the new comment"
//	@Failure	401		{object}	ErrorResponse	"Authentication required"
//	@Failure	422		{object}	ErrorResponse	"Validation error"
//	@Failure	429		{object}	ErrorResponse	"Rate limited"
//	@Router		/api/comments [post]
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req dto.CommentInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.comments.Create(r.Context(), principalFrom(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/comments/%d", c.ID))
	writeJSON(w, http.StatusCreated, c)
}

// handleUpdateComment godoc
//
//	@Summary		Edit a comment
//	@Description	Only the author may edit. Submitting the current text changes nothing.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			commentId	path		int					true	"Comment ID"
//	@Param			comment		body		dto.CommentInput	true	"New text"
//	@Success		200			{object}	dto.CommentDetails
//	@Failure		401			{object}	ErrorResponse	"Authentication required"
//	@Failure		403			{object}	ErrorResponse	"Not the author"
//	@Failure		404			{object}	ErrorResponse	"Comment not found"
//	@Failure		422			{object}	ErrorResponse	"Validation error"
//	@Router			/api/comments/{commentId} [put]
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dto.CommentInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.comments.Update(r.Context(), principalFrom(r), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteComment godoc
//
//	@Summary		Delete a comment
//	@Description	The author or an admin may delete. The edit history goes with it.
//	@Tags			Comments
//	@Security		BearerAuth
//	@Param			commentId	path	int	true	"Comment ID"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse	"Authentication required"
//	@Failure		403	{object}	ErrorResponse	"Not the author"
//	@Failure		404	{object}	ErrorResponse	"Comment not found"
//	@Router			/api/comments/{commentId} [delete]
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := commentID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.comments.Delete(r.Context(), principalFrom(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteAllComments godoc
//
//	@Summary		Delete every comment
//	@Description	Admin only. The request must confirm with {"confirm": true} or ?confirm=yes.
//	@Tags			Comments
//	@Accept			json
//	@Security		BearerAuth
//	@Param			confirm	body	object{confirm=bool}	false	"Confirmation"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse	"Authentication required"
//	@Failure		403	{object}	ErrorResponse	"Not an admin"
//	@Failure		422	{object}	ErrorResponse	"Missing confirmation"
//	@Router			/api/comments [delete]
func (s *Server) handleDeleteAllComments(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteAllInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Confirm == nil {
		if v := r.URL.Query().Get("confirm"); v != "" {
			req.Confirm = v
		}
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.comments.DeleteAll(r.Context(), principalFrom(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func commentID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Invalid("commentId", "the comment id must be a positive integer")
	}
	return id, nil
}
