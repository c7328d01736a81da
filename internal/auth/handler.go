package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/changtoqr/backend/internal/models"
	"github.com/changtoqr/backend/internal/store"
	"github.com/changtoqr/backend/internal/web"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmailAndMethod(ctx context.Context, email string, method models.AuthMethod) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenIssuer
}

func NewHandler(users UserStore, tokens *TokenIssuer) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Register creates a manual account and signs the caller in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		web.Error(w, http.StatusBadRequest, "please provide all required fields")
		return
	}
	for _, err := range []error{
		models.ValidateUsername(req.Username),
		models.ValidateEmail(req.Email),
		models.ValidatePassword(req.Password),
	} {
		if err != nil {
			web.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		slog.Error("hash password", "error", err)
		web.Error(w, http.StatusInternalServerError, "server error while registering user")
		return
	}

	user, err := h.users.CreateUser(r.Context(), models.NewManualUser(req.Username, req.Email, hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			web.Error(w, http.StatusBadRequest, "user already exists (email or username)")
			return
		}
		slog.Error("create user", "error", err)
		web.Error(w, http.StatusInternalServerError, "server error while registering user")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("issue token", "error", err, "user_id", user.ID)
		web.Error(w, http.StatusInternalServerError, "server error while registering user")
		return
	}

	web.JSON(w, http.StatusCreated, models.AuthResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		AuthMethod: user.AuthMethod,
		Token:      token,
		Message:    "user registered successfully",
	})
}

// Login authenticates a manual account and issues a fresh token. Unknown
// email and wrong password share one message so accounts can't be
// enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		web.Error(w, http.StatusBadRequest, "please provide email and password")
		return
	}

	user, err := h.users.GetUserByEmailAndMethod(r.Context(), models.NormalizeEmail(req.Email), models.AuthManual)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("get user by email", "error", err)
			web.Error(w, http.StatusInternalServerError, "server error while logging in")
			return
		}
		web.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !CheckPassword(user, req.Password) {
		web.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("issue token", "error", err, "user_id", user.ID)
		web.Error(w, http.StatusInternalServerError, "server error while logging in")
		return
	}

	web.JSON(w, http.StatusOK, models.AuthResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		AuthMethod: user.AuthMethod,
		Token:      token,
		Message:    "logged in successfully",
	})
}

// Me returns the identity the auth middleware resolved. A missing identity
// here means the route was wired without the middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		web.Error(w, http.StatusNotFound, "user not found")
		return
	}

	web.JSON(w, http.StatusOK, models.AuthResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		AuthMethod: user.AuthMethod,
	})
}

// GoogleAuth would redirect to Google's consent screen.
func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	web.Error(w, http.StatusNotImplemented, "google authentication is not implemented yet")
}

// GoogleAuthCallback would exchange the authorization code for a profile
// and sign the user in.
func (h *Handler) GoogleAuthCallback(w http.ResponseWriter, r *http.Request) {
	web.Error(w, http.StatusNotImplemented, "google authentication callback is not implemented yet")
}
