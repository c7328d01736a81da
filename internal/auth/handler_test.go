package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changtoqr/backend/internal/models"
	"github.com/changtoqr/backend/internal/store"
)

// fakeUserStore is an in-memory UserStore with the same duplicate
// semantics as the Postgres store.
type fakeUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return nil, store.ErrDuplicate
		}
	}
	u := *user
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now()
	f.users = append(f.users, &u)
	return &u, nil
}

func (f *fakeUserStore) GetUserByEmailAndMethod(ctx context.Context, email string, method models.AuthMethod) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.AuthMethod == method {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestHandler() (*Handler, *fakeUserStore, *TokenIssuer) {
	users := &fakeUserStore{}
	tokens := NewTokenIssuer("test-secret")
	return NewHandler(users, tokens), users, tokens
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()
	var resp models.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Message
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	h, users, tokens := newTestHandler()

	rec := postJSON(t, h.Register, models.RegisterRequest{
		Username: "alice1", Email: "A@X.com", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "alice1", resp.Username)
	assert.Equal(t, "a@x.com", resp.Email, "email is lowercase-normalized")
	assert.Equal(t, models.AuthManual, resp.AuthMethod)

	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, userID)

	// Cleartext must never be stored.
	require.Len(t, users.users, 1)
	assert.NotEqual(t, "secret1", users.users[0].PasswordHash)
	assert.NotEmpty(t, users.users[0].PasswordHash)
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	h, users, _ := newTestHandler()

	cases := []models.RegisterRequest{
		{Email: "a@x.com", Password: "secret1"},
		{Username: "alice1", Password: "secret1"},
		{Username: "alice1", Email: "a@x.com"},
		{},
	}
	for _, req := range cases {
		rec := postJSON(t, h.Register, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Empty(t, users.users, "no partial identity is created")
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()

	cases := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"short username", models.RegisterRequest{Username: "ab", Email: "a@x.com", Password: "secret1"}},
		{"long username", models.RegisterRequest{Username: strings.Repeat("a", 26), Email: "a@x.com", Password: "secret1"}},
		{"bad email", models.RegisterRequest{Username: "alice1", Email: "not-an-email", Password: "secret1"}},
		{"short password", models.RegisterRequest{Username: "alice1", Email: "a@x.com", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h.Register, tc.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeMessage(t, rec))
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	h, users, _ := newTestHandler()

	rec := postJSON(t, h.Register, models.RegisterRequest{Username: "alice1", Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same email, different username.
	rec = postJSON(t, h.Register, models.RegisterRequest{Username: "bobby1", Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Same username, different email.
	rec = postJSON(t, h.Register, models.RegisterRequest{Username: "alice1", Email: "b@x.com", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Len(t, users.users, 1, "duplicates create no new identity")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	h, _, tokens := newTestHandler()
	rec := postJSON(t, h.Register, models.RegisterRequest{Username: "alice1", Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeAuthResponse(t, rec)
	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, userID)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	rec := postJSON(t, h.Register, models.RegisterRequest{Username: "alice1", Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := postJSON(t, h.Login, models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	noSuchUser := postJSON(t, h.Login, models.LoginRequest{Email: "nobody@x.com", Password: "secret1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, noSuchUser.Code)
	assert.Equal(t, decodeMessage(t, wrongPassword), decodeMessage(t, noSuchUser),
		"wrong password and unknown email must be indistinguishable")
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()

	rec := postJSON(t, h.Login, models.LoginRequest{Email: "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Login, models.LoginRequest{Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_FederatedAccountNeverMatches(t *testing.T) {
	t.Parallel()

	h, users, _ := newTestHandler()
	users.users = append(users.users, models.NewGoogleUser("alice1", "a@x.com", "google-id-1"))

	rec := postJSON(t, h.Login, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	user := &models.User{ID: "u1", Username: "alice1", Email: "a@x.com", AuthMethod: models.AuthManual}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAuthResponse(t, rec)
	assert.Equal(t, "u1", resp.ID)
	assert.Empty(t, resp.Token, "me does not mint tokens")

	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMe_NoResolvedIdentity(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGoogleAuth_NotImplemented(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler()

	for _, handler := range []http.HandlerFunc{h.GoogleAuth, h.GoogleAuthCallback} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.NotEmpty(t, decodeMessage(t, rec))
	}
}

// Register, fail a login with the wrong password, then succeed with the
// right one.
func TestRegisterLoginScenario(t *testing.T) {
	t.Parallel()

	h, _, tokens := newTestHandler()

	rec := postJSON(t, h.Register, models.RegisterRequest{Username: "alice1", Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decodeAuthResponse(t, rec)
	require.NotEmpty(t, registered.Token)

	rec = postJSON(t, h.Login, models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, h.Login, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decodeAuthResponse(t, rec)

	userID, err := tokens.Verify(loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}
