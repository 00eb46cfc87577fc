package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cliphub/internal/service"
)

// ProfileHandler serves the read-only channel profile view.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetChannelProfile godoc
// @Summary Get a channel profile with subscription stats
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param username path string true "Channel username"
// @Success 200 {object} service.ChannelProfile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /channels/{username} [get]
func (h *ProfileHandler) GetChannelProfile(c echo.Context) error {
	viewer, ok := userFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	profile, err := h.profiles.GetChannelProfile(c.Request().Context(), viewer.ID, c.Param("username"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, profile, "")
}
