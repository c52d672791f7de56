package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(secret string, expiry time.Duration) *SessionManager {
	return NewSessionManager(SessionConfig{
		Secret: secret,
		Expiry: expiry,
		Issuer: "techhire-api-test",
	})
}

func TestSessionIssueAndValidate(t *testing.T) {
	m := newTestManager("test-secret", time.Hour)

	token, expiresAt, err := m.Issue(42, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("token already expired at issuance")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.AdminID != 42 {
		t.Errorf("AdminID = %d, want 42", claims.AdminID)
	}
	if claims.Username != "admin" {
		t.Errorf("Username = %q, want %q", claims.Username, "admin")
	}
	if claims.ID == "" {
		t.Error("missing JTI")
	}
}

func TestSessionExpiredToken(t *testing.T) {
	m := newTestManager("test-secret", -time.Minute)

	token, _, err := m.Issue(1, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = m.Validate(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Validate = %v, want ErrExpiredToken", err)
	}
}

func TestSessionWrongSecret(t *testing.T) {
	token, _, err := newTestManager("secret-a", time.Hour).Issue(1, "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = newTestManager("secret-b", time.Hour).Validate(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate = %v, want ErrInvalidToken", err)
	}
}

func TestSessionGarbageToken(t *testing.T) {
	m := newTestManager("test-secret", time.Hour)

	if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate = %v, want ErrInvalidToken", err)
	}
}

func TestSessionFreshJTIPerToken(t *testing.T) {
	m := newTestManager("test-secret", time.Hour)

	t1, _, _ := m.Issue(1, "admin")
	t2, _, _ := m.Issue(1, "admin")

	c1, err1 := m.Validate(t1)
	c2, err2 := m.Validate(t2)
	if err1 != nil || err2 != nil {
		t.Fatalf("Validate: %v / %v", err1, err2)
	}
	if c1.ID == c2.ID {
		t.Error("two sessions share a JTI")
	}
}
