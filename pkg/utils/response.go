package utils

import "github.com/gofiber/fiber/v2"

// Error writes the API error shape: a bare {"error": message} document.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
