package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cliphub/internal/config"
	"cliphub/internal/handler"
	"cliphub/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions service.SessionService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	profileHandler *handler.ProfileHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes: the JWT middleware checks signature and expiry of
	// the access token, then CurrentUser loads the projected user.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.AccessTokenSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:accessToken",
	}), handler.CurrentUser(sessions))

	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/users/me", userHandler.Me)
	secured.POST("/users/change-password", userHandler.ChangePassword)
	secured.PATCH("/users/profile", userHandler.UpdateProfile)
	secured.PATCH("/users/avatar", userHandler.UpdateAvatar)
	secured.PATCH("/users/cover-image", userHandler.UpdateCoverImage)

	secured.GET("/channels/:username", profileHandler.GetChannelProfile)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
