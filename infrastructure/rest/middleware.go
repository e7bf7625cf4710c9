package rest

import (
	"social-club/auth"

	"github.com/labstack/echo/v4"
)

const subjectKey = "subject"

// authenticate resolves the bearer token into an auth.Subject stored on the context.
func authenticate(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := tokens.Validate(auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
			if err != nil {
				return err
			}
			c.Set(subjectKey, auth.Subject{ID: claims.UserID, Roles: claims.Roles})
			return next(c)
		}
	}
}

func subjectOf(c echo.Context) auth.Subject {
	subject, _ := c.Get(subjectKey).(auth.Subject)
	return subject
}
