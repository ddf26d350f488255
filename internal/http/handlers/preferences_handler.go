package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/services"
)

// PreferencesResponse wraps a user's settings.
type PreferencesResponse struct {
	Preferences *domain.Preferences `json:"preferences"`
}

// GetPreferences godoc
// @ID          getPreferences
// @Summary     Read preferences
// @Description Returns the user's planning settings, creating the defaults on first read.
// @Tags        Preferences
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object} handlers.PreferencesResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /preferences [get]
func (h *Handlers) GetPreferences(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	p, err := h.prefs.Get(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PreferencesResponse{Preferences: p})
}

// SavePreferences godoc
// @ID          savePreferences
// @Summary     Replace preferences
// @Description Validates and stores goal, duration (1-240 min), intensity, equipment and weekdays.
// @Tags        Preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  services.PreferencesInput  true  "New preferences"
// @Success     200  {object} handlers.PreferencesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /preferences [put]
func (h *Handlers) SavePreferences(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	var in services.PreferencesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.prefs.Save(c.Request.Context(), uid, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PreferencesResponse{Preferences: p})
}
