package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
)

// Pinger is a liveness probe on the document store.
type Pinger interface {
	IsAlive(ctx context.Context) bool
}

type AppHandler struct {
	Sessions services.Sessions
	DB       Pinger
	Users    services.UserStore
	Files    services.FileStore
}

func NewAppHandler(sessions services.Sessions, db Pinger, users services.UserStore, files services.FileStore) *AppHandler {
	return &AppHandler{Sessions: sessions, DB: db, Users: users, Files: files}
}

func (h *AppHandler) GetStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"redis": h.Sessions.IsAvailable(c.Context()),
		"db":    h.DB.IsAlive(c.Context()),
	})
}

func (h *AppHandler) GetStats(c *fiber.Ctx) error {
	files, err := h.Files.Count(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting files")
	}
	users, err := h.Users.Count(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting users")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"files": files,
		"users": users,
	})
}
