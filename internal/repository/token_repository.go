package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dwbooks/bookmanager/internal/config"
	"github.com/dwbooks/bookmanager/internal/database"
	"github.com/dwbooks/bookmanager/internal/utils"
)

// SQLiteTokenRepository implements TokenRepository against the embedded
// SQLite file. Token lookups use the pooled read handle; inserts and deletes
// open a dedicated short-lived handle, matching the other repositories.
type SQLiteTokenRepository struct {
	db     *sqlx.DB
	pool   *database.Pool
	dbPath string
	log    *utils.Logger
}

// NewTokenRepository creates a token repository. An unresolvable database
// path is a configuration error; callers treat it as fatal.
func NewTokenRepository(cfg *config.Config, pool *database.Pool, log *utils.Logger) (*SQLiteTokenRepository, error) {
	if cfg.Database.Path == "" {
		return nil, errors.New("token repository: database path is not configured")
	}

	db, err := pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("token repository: %w", err)
	}

	return &SQLiteTokenRepository{
		db:     db,
		pool:   pool,
		dbPath: cfg.Database.Path,
		log:    log,
	}, nil
}

// Close returns the read handle to the pool.
func (r *SQLiteTokenRepository) Close() {
	r.pool.Release(r.db)
}

// Create issues a token for the user. Issuance is idempotent: when a token
// already exists for the user it is returned unchanged and no row is
// written.
func (r *SQLiteTokenRepository) Create(ctx context.Context, userID int64) (string, error) {
	token, err := r.GetTokenForUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	token, err = generateToken(userID)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return "", fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	query := `INSERT INTO tokens (user_id, token, expires) VALUES (?, ?, datetime('now'))`
	if _, err := db.ExecContext(ctx, query, userID, token); err != nil {
		return "", fmt.Errorf("error storing token: %w", err)
	}

	r.log.Debug("token repository: token created for user %d", userID)
	return token, nil
}

// Exists reports whether the token is known.
func (r *SQLiteTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM tokens WHERE token = ?`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking token: %w", err)
	}
	return true, nil
}

// GetUserIDForToken returns the user id bound to the token, or 0 when the
// token is unknown. Expiry is not checked.
func (r *SQLiteTokenRepository) GetUserIDForToken(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.db.GetContext(ctx, &userID, `SELECT user_id FROM tokens WHERE token = ?`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("error resolving token: %w", err)
	}
	return userID, nil
}

// GetTokenForUserID returns the live token for the user, or "" when none
// exists.
func (r *SQLiteTokenRepository) GetTokenForUserID(ctx context.Context, userID int64) (string, error) {
	var token string
	err := r.db.GetContext(ctx, &token, `SELECT token FROM tokens WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("error getting token for user %d: %w", userID, err)
	}
	return token, nil
}

// Remove deletes the token row and reports whether a row was removed.
func (r *SQLiteTokenRepository) Remove(ctx context.Context, token string) (bool, error) {
	db, err := database.Open(r.dbPath)
	if err != nil {
		return false, fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, token)
	if err != nil {
		return false, fmt.Errorf("error removing token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking delete result: %w", err)
	}

	return affected > 0, nil
}

// generateToken builds an opaque token: sixteen hex digits of a high-order
// random value concatenated with the decimal user id. The format keeps the
// token length between 17 and 22 characters for realistic user ids.
func generateToken(userID int64) (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}

	// Force the value into [2^62, 2^63) so the hex form is always 16 digits.
	n := binary.BigEndian.Uint64(buf[:])>>2 | 1<<62

	return fmt.Sprintf("%x%d", n, userID), nil
}
