package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

type stubRevoker struct {
	revoked map[string]bool
}

func (r *stubRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	if r.revoked == nil {
		r.revoked = map[string]bool{}
	}
	r.revoked[jti] = true
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], nil
}

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

// invoke runs the Auth middleware against a request and reports the captured
// context values plus the outcome.
func invoke(t *testing.T, revoker *stubRevoker, cookie *http.Cookie) (userID, jti string, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret, revoker)(func(c echo.Context) error {
		userID, _ = c.Get(CtxUserID).(string)
		jti, _ = c.Get(CtxTokenJTI).(string)
		return c.NoContent(http.StatusOK)
	})
	err = handler(c)
	return userID, jti, err
}

func TestAuthAcceptsValidCookie(t *testing.T) {
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"jti": "jti-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	userID, jti, err := invoke(t, &stubRevoker{}, &http.Cookie{Name: SessionCookieName, Value: token})
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if userID != "user-1" || jti != "jti-1" {
		t.Errorf("context = (%q, %q), want (user-1, jti-1)", userID, jti)
	}
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	_, _, err := invoke(t, &stubRevoker{}, nil)
	assertUnauthorized(t, err)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"jti": "jti-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, _, err := invoke(t, &stubRevoker{}, &http.Cookie{Name: SessionCookieName, Value: token})
	assertUnauthorized(t, err)
}

func TestAuthRejectsWrongSignature(t *testing.T) {
	token := mintToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"jti": "jti-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, _, err := invoke(t, &stubRevoker{}, &http.Cookie{Name: SessionCookieName, Value: token})
	assertUnauthorized(t, err)
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	revoker := &stubRevoker{}
	_ = revoker.Revoke(context.Background(), "jti-1", time.Hour)

	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"jti": "jti-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, _, err := invoke(t, revoker, &http.Cookie{Name: SessionCookieName, Value: token})
	assertUnauthorized(t, err)
}

func TestAuthRejectsIncompleteClaims(t *testing.T) {
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, _, err := invoke(t, &stubRevoker{}, &http.Cookie{Name: SessionCookieName, Value: token})
	assertUnauthorized(t, err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("error = %v, want *echo.HTTPError", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", he.Code)
	}
}
