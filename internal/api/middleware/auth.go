package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/teamflow/teamflow-api/internal/core/ports"
)

// SessionCookieName is the cookie the session token travels in. HttpOnly, so
// it is never reachable from client-side scripts.
const SessionCookieName = "teamflow_session"

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID    = "user_id"
	CtxTokenJTI  = "token_jti"
	CtxExpiresAt = "token_expires_at"
)

// Auth validates the session cookie and injects the user identity into the
// request context. Tokens revoked by logout are rejected even when their
// signature and expiry are still valid.
func Auth(jwtSecret string, revoker ports.TokenRevoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			userID, _ := claims["sub"].(string)
			jti, _ := claims["jti"].(string)
			if userID == "" || jti == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			revoked, err := revoker.IsRevoked(c.Request().Context(), jti)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session check failed")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(CtxUserID, userID)
			c.Set(CtxTokenJTI, jti)
			if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
				c.Set(CtxExpiresAt, exp.Time)
			} else {
				c.Set(CtxExpiresAt, time.Time{})
			}

			return next(c)
		}
	}
}
