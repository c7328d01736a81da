package auth

import (
	"github.com/changtoqr/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted bcrypt digest from a cleartext password.
// bcrypt.DefaultCost is work factor 10.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the user's stored hash.
// Non-manual accounts have no password, so the comparison is skipped
// entirely and the answer is false.
func CheckPassword(user *models.User, password string) bool {
	if user.AuthMethod != models.AuthManual || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
