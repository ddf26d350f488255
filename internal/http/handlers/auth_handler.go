package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/services"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required" example:"Demo User"`
	Email    string `json:"email"    binding:"required" example:"demo@trainflow.com"`
	Password string `json:"password" binding:"required" example:"Demo123!"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required" example:"demo@trainflow.com"`
	Password string `json:"password" binding:"required" example:"Demo123!"`
}

// UserResponse wraps an account.
type UserResponse struct {
	User *domain.User `json:"user"`
}

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Creates the user with default preferences and returns a bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterRequest  true  "Account"
// @Success     201  {object} services.Session
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Email taken"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email and password are required")
		return
	}
	s, err := h.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, s)
}

// Login godoc
// @ID          login
// @Summary     Sign in
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object} services.Session
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}
	s, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, s)
}

// Session godoc
// @ID          session
// @Summary     Current user
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object} handlers.UserResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /auth/session [get]
func (h *Handlers) Session(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	u, err := h.accounts.Get(c.Request.Context(), uid)
	if err != nil {
		// A valid token for a deleted account is no session at all.
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "session user no longer exists")
			return
		}
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, UserResponse{User: u})
}

// Logout godoc
// @ID          logout
// @Summary     Sign out
// @Description Tokens are stateless; clients discard theirs. Always succeeds.
// @Tags        Auth
// @Produce     json
// @Success     200  {object} map[string]bool
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"ok": true})
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Edit profile
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  services.ProfileInput  true  "Profile"
// @Success     200  {object} handlers.UserResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     409  {object} handlers.ErrorResponse "Email taken"
// @Router      /profile [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	u, err := h.accounts.UpdateProfile(c.Request.Context(), uid, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, UserResponse{User: u})
}
