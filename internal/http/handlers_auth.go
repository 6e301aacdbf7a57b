package httpapp

import (
	"net/http"

	"github.com/alphabot-ai/remarks/internal/dto"
)

// handleAuth godoc
//
//	@Summary		Sign in
//	@Description	Exchange email and password for a bearer token. Every token issued to the user before is revoked.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		dto.Credentials	true	"Email and password"
//	@Success		200			{object}	dto.TokenResponse
//	@Failure		401			{object}	ErrorResponse	"Invalid credentials"
//	@Failure		422			{object}	ErrorResponse	"Validation error"
//	@Failure		429			{object}	ErrorResponse	"Rate limited"
//	@Router			/api/auth [post]
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req dto.Credentials
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.auth.Authenticate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

// handleRegister godoc
//
//	@Summary		Register
//	@Description	Create a user account. Passwords need at least 8 characters.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			user	body		dto.RegisterInput	true	"New user"
//	@Success		201		{object}	dto.UserDetails
//	@Failure		409		{object}	ErrorResponse	"Email already taken"
//	@Failure		422		{object}	ErrorResponse	"Validation error"
//	@Failure		429		{object}	ErrorResponse	"Rate limited"
//	@Router			/api/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// handleLogout godoc
//
//	@Summary	Sign out
//	@Tags		Authentication
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.MessageResponse
//	@Failure	401	{object}	ErrorResponse	"Authentication required"
//	@Router		/api/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), principalFrom(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// handleChangePassword godoc
//
//	@Summary	Change password
//	@Tags		Authentication
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		passwords	body		dto.ChangePasswordInput	true	"Current and new password"
//	@Success	200			{object}	dto.MessageResponse
//	@Failure	401			{object}	ErrorResponse	"Wrong current password"
//	@Failure	422			{object}	ErrorResponse	"Validation error"
//	@Router		/api/changePassword [patch]
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.auth.ChangePassword(r.Context(), principalFrom(r), req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "password changed"})
}

// handleMe godoc
//
//	@Summary	Current user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	dto.UserDetails
//	@Failure	401	{object}	ErrorResponse	"Authentication required"
//	@Router		/api/me [get]
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), principalFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleUpdateMe godoc
//
//	@Summary	Update profile
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user	body		dto.UpdateUserInput	true	"Name and email"
//	@Success	200		{object}	dto.UserDetails
//	@Failure	401		{object}	ErrorResponse	"Authentication required"
//	@Failure	409		{object}	ErrorResponse	"Email already taken"
//	@Failure	422		{object}	ErrorResponse	"Validation error"
//	@Router		/api/me [put]
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.auth.UpdateMe(r.Context(), principalFrom(r), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
