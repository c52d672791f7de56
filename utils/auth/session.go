package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session has expired")
)

// SessionCookieName is the HTTP-only cookie carrying the admin session token.
const SessionCookieName = "techhire_session"

// SessionConfig holds session token configuration
type SessionConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// SessionClaims represents the claims carried by an admin session token
type SessionClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates signed admin session tokens. It is an
// explicitly constructed dependency, passed to whatever needs it.
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a new session manager
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{
		config: config,
	}
}

// Issue generates a signed session token for an admin with a fresh JTI
func (m *SessionManager) Issue(adminID uint, username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.Expiry)

	claims := SessionClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.config.Secret))
	return signedToken, expiresAt, err
}

// Validate parses and verifies a session token
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
