package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/ikonbethel/alx-files-manager/internal/models"
	"github.com/ikonbethel/alx-files-manager/internal/services"
	"github.com/ikonbethel/alx-files-manager/pkg/logger"
	"github.com/ikonbethel/alx-files-manager/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// TokenHeader carries the opaque session token on authenticated routes.
	TokenHeader = "X-Token"

	currentUserKey = "currentUser"
	tokenKey       = "sessionToken"
)

type AuthMiddleware struct {
	Sessions services.Sessions
	Users    services.UserStore
}

func NewAuthMiddleware(sessions services.Sessions, users services.UserStore) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions, Users: users}
}

func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Token",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	})
}

// RequireAuth resolves the X-Token header to a user and stores it in the
// request locals. Missing, unresolvable and dangling tokens are all a 401.
func (a *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	token := c.Get(TokenHeader)
	if token == "" {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := a.lookup(c, token)
	if err != nil {
		logger.Warn("token_lookup_failed", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	c.Locals(currentUserKey, user)
	c.Locals(tokenKey, token)
	return c.Next()
}

func (a *AuthMiddleware) lookup(c *fiber.Ctx, token string) (*models.User, error) {
	raw, err := a.Sessions.Resolve(c.Context(), token)
	if err != nil || raw == "" {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, err
	}

	return a.Users.FindByID(c.Context(), userID)
}

func GetCurrentUser(c *fiber.Ctx) *models.User {
	value := c.Locals(currentUserKey)
	if value == nil {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func GetToken(c *fiber.Ctx) string {
	value := c.Locals(tokenKey)
	if value == nil {
		return ""
	}
	token, ok := value.(string)
	if !ok {
		return ""
	}
	return token
}
