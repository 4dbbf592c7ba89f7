package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"facilities-directory/internal/config"
	"facilities-directory/internal/utils"
)

// AuthHandler implements the admin login. The service has exactly one
// built-in administrator configured through the environment; there is
// no registration or refresh flow.
type AuthHandler struct {
	Cfg       config.Config
	adminHash string
}

// NewAuthHandler hashes the configured admin password once at boot so
// the plaintext never has to be compared directly per request.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	return &AuthHandler{Cfg: cfg, adminHash: hash}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	Role    string    `json:"role"`
}

// Login verifies the admin credentials and returns a short-lived access
// token with the ADMIN role claim.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	if req.Email != strings.ToLower(h.Cfg.AdminEmail) || !utils.VerifyPassword(h.adminHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, req.Email, "ADMIN", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: access.Token, Expires: access.Exp, Role: "ADMIN"})
}
