package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ikonbethel/alx-files-manager/internal/middleware"
	"github.com/ikonbethel/alx-files-manager/internal/repository"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
)

type UsersHandler struct {
	Users services.UserStore
	Queue services.Enqueuer
}

func NewUsersHandler(users services.UserStore, enqueuer services.Enqueuer) *UsersHandler {
	return &UsersHandler{Users: users, Queue: enqueuer}
}

type newUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) PostNew(c *fiber.Ctx) error {
	var req newUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Missing email")
	}

	if req.Email == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Missing email")
	}
	if req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Missing password")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed hashing password")
	}

	user, err := h.Users.Create(c.Context(), req.Email, hash)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return utils.Error(c, fiber.StatusBadRequest, "Already exist")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating user")
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
	})

	if err := h.Queue.EnqueueWelcome(c.Context(), user.ID.Hex()); err != nil {
		logger.Error("welcome_enqueue_failed", err, map[string]interface{}{
			"user_id": user.ID.Hex(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user.Response())
}

func (h *UsersHandler) GetMe(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return c.Status(fiber.StatusOK).JSON(user.Response())
}
