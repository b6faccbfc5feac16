package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok, "user id missing from context")
		_, _ = w.Write([]byte(id))
	})
}

func TestMiddleware_MissingToken(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(Config{Secret: "s", Expiration: time.Hour})
	h := Middleware(m)(protectedEcho(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"token required"}`, rec.Body.String())
}

func TestMiddleware_BadScheme(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(Config{Secret: "s", Expiration: time.Hour})
	h := Middleware(m)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(Config{Secret: "s", Expiration: time.Hour})
	h := Middleware(m)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid or expired token"}`, rec.Body.String())
}

func TestMiddleware_ValidBearer(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(Config{Secret: "s", Expiration: time.Hour})
	tok, err := m.Generate("u42")
	require.NoError(t, err)

	h := Middleware(m)(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u42", rec.Body.String())
}

func TestMiddleware_CookieFallback(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(Config{Secret: "s", Expiration: time.Hour})
	tok, err := m.Generate("u7")
	require.NoError(t, err)

	h := Middleware(m)(protectedEcho(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u7", rec.Body.String())
}
