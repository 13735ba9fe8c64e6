package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teamflow/teamflow-api/internal/api/middleware"
)

// actorID extracts the authenticated user id injected by the Auth middleware.
// Presence proves the middleware ran; an empty value means a route was wired
// without it, which is rejected rather than trusted.
func actorID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// sessionToken returns the token id and expiry needed to revoke the session.
func sessionToken(c echo.Context) (jti string, expiresAt time.Time, err error) {
	jti, _ = c.Get(middleware.CtxTokenJTI).(string)
	if jti == "" {
		return "", time.Time{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	expiresAt, _ = c.Get(middleware.CtxExpiresAt).(time.Time)
	return jti, expiresAt, nil
}

// dataEnvelope is the canonical success body: {"success":true,"data":...}.
type dataEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, dataEnvelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, dataEnvelope{Success: true, Message: message})
}
