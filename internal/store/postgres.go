package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/changtoqr/backend/internal/models"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresStore handles user CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id          UUID PRIMARY KEY,
			username    VARCHAR(25)  UNIQUE NOT NULL,
			email       VARCHAR(255) UNIQUE NOT NULL,
			password    VARCHAR(255),
			auth_method VARCHAR(16)  NOT NULL DEFAULT 'manual',
			google_id   VARCHAR(255) UNIQUE,
			created_at  TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

// CreateUser inserts a new account. It checks username/email availability
// up front and returns ErrDuplicate; a concurrent insert slipping past the
// check still surfaces as ErrDuplicate through the unique indexes, so no
// identity is ever overwritten.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var taken bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		user.Username, user.Email,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("check user exists: %w", err)
	}
	if taken {
		return nil, ErrDuplicate
	}

	u := *user
	u.ID = uuid.New().String()
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password, auth_method, google_id)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		 RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.AuthMethod, u.GoogleID,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// GetUserByEmailAndMethod loads a user, password hash included, for login.
func (s *PostgresStore) GetUserByEmailAndMethod(ctx context.Context, email string, method models.AuthMethod) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, COALESCE(password, ''), auth_method, google_id, created_at
		 FROM users WHERE email = $1 AND auth_method = $2`,
		email, method,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AuthMethod, &u.GoogleID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// GetUserByID loads a user without the password hash. An id that is not
// a well-formed UUID can't match any row, so it reports ErrNotFound
// without touching the database.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, auth_method, google_id, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.AuthMethod, &u.GoogleID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}
