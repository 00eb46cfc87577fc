package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cliphub/internal/config"
	"cliphub/internal/media"
	"cliphub/internal/service"
)

// UserHandler bundles account maintenance endpoints. All routes here are
// secured; the current user comes from the request context.
type UserHandler struct {
	sessions service.SessionService
	cfg      *config.Config
}

// NewUserHandler creates a user handler.
func NewUserHandler(sessions service.SessionService, cfg *config.Config) *UserHandler {
	return &UserHandler{sessions: sessions, cfg: cfg}
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// Me godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := userFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	return respond(c, http.StatusOK, user, "")
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Password change"
// @Success 200 {object} APIResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user, ok := userFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "password changed successfully")
}

// UpdateProfile godoc
// @Summary Update full name and/or username
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, ok := userFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.sessions.UpdateProfile(c.Request().Context(), user.ID, req.FullName, req.Username)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, updated, "profile updated successfully")
}

// UpdateAvatar godoc
// @Summary Replace the current user's avatar
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar")
}

// UpdateCoverImage godoc
// @Summary Replace the current user's cover image
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage")
}

func (h *UserHandler) updateImage(c echo.Context, field string) error {
	user, ok := userFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	localPath, err := spoolUpload(c, field, h.cfg.TempUploadDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file upload")
	}
	defer media.RemoveLocal(localPath)

	var updated interface{}
	if field == "avatar" {
		updated, err = h.sessions.UpdateAvatar(c.Request().Context(), user.ID, localPath)
	} else {
		updated, err = h.sessions.UpdateCoverImage(c.Request().Context(), user.ID, localPath)
	}
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, updated, "image updated successfully")
}
