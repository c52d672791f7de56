package auth

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the default bcrypt cost
const DefaultCost = 12

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword reports whether the provided password matches the stored
// hash. Callers must not distinguish a bad password from an unknown user in
// anything user-facing.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
