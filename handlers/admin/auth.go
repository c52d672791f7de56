package admin

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/techhire/techhire-api/model"
	"github.com/techhire/techhire-api/utils/auth"
	"github.com/techhire/techhire-api/utils/middleware"
	"github.com/techhire/techhire-api/utils/response"
	"github.com/techhire/techhire-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles admin login and logout
type AuthHandler struct {
	db           *gorm.DB
	sessions     *auth.SessionManager
	bruteForce   *middleware.BruteForceProtection
	validator    *validation.Validator
	secureCookie bool
}

// NewAuthHandler creates a new admin auth handler. bruteForce may be nil
// when Redis is unavailable.
func NewAuthHandler(db *gorm.DB, sessions *auth.SessionManager, bruteForce *middleware.BruteForceProtection, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		db:           db,
		sessions:     sessions,
		bruteForce:   bruteForce,
		validator:    validation.NewValidator(),
		secureCookie: secureCookie,
	}
}

// LoginRequest represents the request body for POST /admin/login
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /admin/login. Every failure path returns the same
// generic message so the response never reveals which factor was wrong.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Username and password are required")
	}

	var admin model.Admin
	err := h.db.Where("username = ?", req.Username).First(&admin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Login failed")
	}

	if err != nil || !auth.VerifyPassword(admin.PasswordHash, req.Password) {
		if h.bruteForce != nil {
			h.bruteForce.RecordFailedAttempt(c, c.IP())
		}
		return response.Unauthorized(c, "Invalid username or password")
	}

	token, expiresAt, err := h.sessions.Issue(admin.ID, admin.Username)
	if err != nil {
		return response.InternalServerError(c, "Login failed")
	}

	if h.bruteForce != nil {
		h.bruteForce.RecordSuccessfulAttempt(c, c.IP())
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
		Path:     "/",
	})

	return response.SuccessWithMessage(c, "Logged in", fiber.Map{
		"username": admin.Username,
	})
}

// Logout handles POST /admin/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
		Path:     "/",
	})

	return response.SuccessWithMessage(c, "Logged out", nil)
}
