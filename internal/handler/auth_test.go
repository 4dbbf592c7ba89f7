package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilities-directory/internal/config"
)

func testAuthHandler() *AuthHandler {
	return NewAuthHandler(config.Config{
		JWTSecret:     "test-secret",
		AccessTTLMin:  15,
		BcryptCost:    4,
		AdminEmail:    "Admin@Example.com",
		AdminPassword: "s3cret-pass",
	})
}

func postLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	return rec
}

func TestLoginSuccess(t *testing.T) {
	h := testAuthHandler()

	// Email comparison is case-insensitive.
	rec := postLogin(t, h, `{"email":"admin@example.COM","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ADMIN", resp.Role)
	require.NotEmpty(t, resp.Token)

	tok, err := jwt.Parse(resp.Token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	rec := postLogin(t, testAuthHandler(), `{"email":"admin@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	rec := postLogin(t, testAuthHandler(), `{"email":"other@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	rec := postLogin(t, testAuthHandler(), `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
