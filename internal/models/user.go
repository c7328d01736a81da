package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// AuthMethod tells how an account authenticates. Exactly one of the
// method-specific fields on User is meaningful for a given method.
type AuthMethod string

const (
	AuthManual AuthMethod = "manual"
	AuthGoogle AuthMethod = "google"
)

const (
	MinUsernameLen = 4
	MaxUsernameLen = 25
	MinPasswordLen = 6
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

var (
	ErrUsernameLength = errors.New("username must be between 4 and 25 characters")
	ErrInvalidEmail   = errors.New("please provide a valid email address")
	ErrPasswordLength = errors.New("password must be at least 6 characters")
)

// User represents a row in the PostgreSQL users table.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never serialize
	AuthMethod   AuthMethod `json:"authMethod"`
	GoogleID     *string    `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewManualUser builds a password-backed user. The hash must already be
// computed; cleartext never reaches this constructor.
func NewManualUser(username, email, passwordHash string) *User {
	return &User{
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		AuthMethod:   AuthManual,
	}
}

// NewGoogleUser builds a federated user. It carries a google id and no
// password hash.
func NewGoogleUser(username, email, googleID string) *User {
	return &User{
		Username:   strings.TrimSpace(username),
		Email:      NormalizeEmail(email),
		AuthMethod: AuthGoogle,
		GoogleID:   &googleID,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername checks the trimmed length bounds.
func ValidateUsername(username string) error {
	n := len(strings.TrimSpace(username))
	if n < MinUsernameLen || n > MaxUsernameLen {
		return ErrUsernameLength
	}
	return nil
}

// ValidateEmail checks the address against the email pattern.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the minimum cleartext length before hashing.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return ErrPasswordLength
	}
	return nil
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned from register and login with a fresh token,
// and from /auth/me without one.
type AuthResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	AuthMethod AuthMethod `json:"authMethod"`
	Token      string     `json:"token,omitempty"`
	Message    string     `json:"message,omitempty"`
}
