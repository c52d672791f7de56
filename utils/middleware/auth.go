package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/utils/auth"
	"github.com/techhire/techhire-api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware gates the admin surface behind the session cookie
type AuthMiddleware struct {
	sessions *auth.SessionManager
	db       *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(sessions *auth.SessionManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		db:       db,
	}
}

// RequireAdmin is middleware that requires a valid admin session cookie.
// The admin row is reloaded on every request so a deleted account loses
// access immediately, token or not.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(auth.SessionCookieName)
		if tokenString == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		claims, err := m.sessions.Validate(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return response.Unauthorized(c, "Session has expired")
			}
			return response.Unauthorized(c, "Invalid session")
		}

		var admin model.Admin
		if err := m.db.First(&admin, claims.AdminID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Unauthorized(c, "Admin not found")
			}
			return response.InternalServerError(c, "Failed to load admin")
		}

		c.Locals("admin", &admin)
		c.Locals("admin_id", admin.ID)

		return c.Next()
	}
}

// GetAdmin extracts the authenticated admin from context
func GetAdmin(c *fiber.Ctx) (*model.Admin, bool) {
	admin := c.Locals("admin")
	if admin == nil {
		return nil, false
	}
	a, ok := admin.(*model.Admin)
	return a, ok
}
