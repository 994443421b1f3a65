package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	uids map[string]string
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if uid, ok := f.uids[token]; ok {
		return uid, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "bad token")
}

func newAuthFixture() (*AuthMiddleware, echo.HandlerFunc) {
	m := NewAuthMiddleware(&fakeVerifier{uids: map[string]string{"good-token": "alice"}})
	next := func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("uid").(string))
	}
	return m, next
}

func TestAuthenticateSetsUID(t *testing.T) {
	m, next := newAuthFixture()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, m.Authenticate(next)(c))
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	m, next := newAuthFixture()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := m.Authenticate(next)(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	m, next := newAuthFixture()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer forged")
	c := e.NewContext(req, httptest.NewRecorder())

	err := m.Authenticate(next)(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestGetUIDFromToken(t *testing.T) {
	m, _ := newAuthFixture()

	uid, err := m.GetUIDFromToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)

	_, err = m.GetUIDFromToken(context.Background(), "forged")
	require.Error(t, err)
}
