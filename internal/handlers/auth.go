package handlers

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ikonbethel/alx-files-manager/internal/middleware"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
)

type AuthHandler struct {
	Sessions services.Sessions
	Users    services.UserStore
	TokenTTL time.Duration
}

func NewAuthHandler(sessions services.Sessions, users services.UserStore, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Users: users, TokenTTL: tokenTTL}
}

// GetConnect exchanges HTTP Basic credentials for a session token.
func (h *AuthHandler) GetConnect(c *fiber.Ctx) error {
	email, password, ok := parseBasicAuth(c.Get("Authorization"))
	if !ok {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.Users.FindByCredentials(c.Context(), email, password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking credentials")
	}
	if user == nil {
		logger.Warn("login_failed", map[string]interface{}{
			"email": email,
			"ip":    c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	token, err := h.Sessions.Issue(c.Context(), user.ID.Hex(), h.TokenTTL)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed issuing token")
	}

	logger.InfoWithUser(user.ID.Hex(), "user_connected", map[string]interface{}{
		"email": user.Email,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}

// GetDisconnect revokes the caller's session token.
func (h *AuthHandler) GetDisconnect(c *fiber.Ctx) error {
	token := middleware.GetToken(c)
	if token == "" {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.Sessions.Revoke(c.Context(), token); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed revoking token")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found || email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}
