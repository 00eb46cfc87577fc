package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"cliphub/internal/model"
	"cliphub/internal/service"
)

const currentUserKey = "currentUser"

// CurrentUser resolves the bearer access token to its user and stores the
// projection in the request context. Runs after the JWT middleware, which
// already rejected requests with a missing or unparsable token.
func CurrentUser(sessions service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := sessions.Authenticate(c.Request().Context(), accessTokenFrom(c))
			if err != nil {
				return respondError(c, err)
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// accessTokenFrom reads the raw token from the Authorization header or,
// for browser clients, from the accessToken cookie.
func accessTokenFrom(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

func userFromContext(c echo.Context) (*model.PublicUser, bool) {
	user, ok := c.Get(currentUserKey).(*model.PublicUser)
	return user, ok
}
