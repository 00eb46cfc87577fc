package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cliphub/internal/config"
	"cliphub/internal/media"
	"cliphub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessions service.SessionService
	cfg      *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions service.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{sessions: sessions, cfg: cfg}
}

// LoginRequest represents a user login request. Either email or username
// identifies the user.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request for non-cookie clients.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         interface{} `json:"user,omitempty"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param fullName formData string true "Full name"
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} APIResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	avatarPath, err := spoolUpload(c, "avatar", h.cfg.TempUploadDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}
	defer media.RemoveLocal(avatarPath)

	coverPath, err := spoolUpload(c, "coverImage", h.cfg.TempUploadDir)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cover image upload")
	}
	defer media.RemoveLocal(coverPath)

	user, err := h.sessions.Register(c.Request().Context(), service.RegisterInput{
		FullName:       c.FormValue("fullName"),
		Email:          c.FormValue("email"),
		Username:       c.FormValue("username"),
		Password:       c.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, user, "user registered successfully")
}

// Login godoc
// @Summary Login with email or username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	result, err := h.sessions.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	setTokenCookie(c, "accessToken", result.Pair.AccessToken, h.cfg.AccessTokenExpiry)
	setTokenCookie(c, "refreshToken", result.Pair.RefreshToken, h.cfg.RefreshTokenExpiry)

	return respond(c, http.StatusOK, AuthResponse{
		AccessToken:  result.Pair.AccessToken,
		RefreshToken: result.Pair.RefreshToken,
		User:         result.User,
	}, "user logged in successfully")
}

// Refresh godoc
// @Summary Rotate the refresh token for a new pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token (cookie clients may omit)"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	pair, err := h.sessions.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return respondError(c, err)
	}

	setTokenCookie(c, "accessToken", pair.AccessToken, h.cfg.AccessTokenExpiry)
	setTokenCookie(c, "refreshToken", pair.RefreshToken, h.cfg.RefreshTokenExpiry)

	return respond(c, http.StatusOK, AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "tokens refreshed successfully")
}

// Logout godoc
// @Summary Logout the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, ok := userFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	if err := h.sessions.Logout(c.Request().Context(), user.ID); err != nil {
		return respondError(c, err)
	}

	clearTokenCookie(c, "accessToken")
	clearTokenCookie(c, "refreshToken")

	return respond(c, http.StatusOK, nil, "user logged out successfully")
}
