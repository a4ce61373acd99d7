package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dwbooks/bookmanager/internal/config"
	"github.com/dwbooks/bookmanager/internal/database"
	"github.com/dwbooks/bookmanager/internal/models"
	"github.com/dwbooks/bookmanager/internal/utils"
)

const userColumns = "id, name, email, password"

// SQLiteUserRepository implements UserRepository against the embedded SQLite
// file, with the same handle policy as the book repository: pooled handle
// for reads, dedicated short-lived handle per write.
type SQLiteUserRepository struct {
	db     *sqlx.DB
	pool   *database.Pool
	dbPath string
	log    *utils.Logger
}

// NewUserRepository creates a user repository. An unresolvable database path
// is a configuration error; callers treat it as fatal.
func NewUserRepository(cfg *config.Config, pool *database.Pool, log *utils.Logger) (*SQLiteUserRepository, error) {
	if cfg.Database.Path == "" {
		return nil, errors.New("user repository: database path is not configured")
	}

	db, err := pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("user repository: %w", err)
	}

	return &SQLiteUserRepository{
		db:     db,
		pool:   pool,
		dbPath: cfg.Database.Path,
		log:    log,
	}, nil
}

// Close returns the read handle to the pool.
func (r *SQLiteUserRepository) Close() {
	r.pool.Release(r.db)
}

// Store inserts a new user and returns the assigned id.
func (r *SQLiteUserRepository) Store(ctx context.Context, user models.User) (int64, error) {
	r.log.Debug("user repository: store %s", user)

	db, err := database.Open(r.dbPath)
	if err != nil {
		return 0, fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	query := `INSERT INTO users (name, email, password, created_at, updated_at)
		VALUES (?, ?, ?, datetime('now'), datetime('now'))`

	result, err := db.ExecContext(ctx, query, user.Name, user.Email, user.Password)
	if err != nil {
		return 0, fmt.Errorf("error storing user: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error getting new user id: %w", err)
	}

	return newID, nil
}

// GetByID returns the user with the given id, or a zero user when no row
// matches.
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, nil
		}
		return models.User{}, fmt.Errorf("error getting user %d: %w", id, err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email, or nil when no row
// matches. The password comparison happens in the service layer against the
// stored hash.
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return &user, nil
}

// Count returns the number of users.
func (r *SQLiteUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}

// UpdatePassword replaces the stored password hash for the user.
func (r *SQLiteUserRepository) UpdatePassword(ctx context.Context, id int64, password string) (bool, error) {
	r.log.Debug("user repository: update password for user %d", id)

	db, err := database.Open(r.dbPath)
	if err != nil {
		return false, fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = datetime('now') WHERE id = ?`, password, id)
	if err != nil {
		return false, fmt.Errorf("error updating password for user %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking update result: %w", err)
	}

	return affected > 0, nil
}

// Remove deletes the user row.
func (r *SQLiteUserRepository) Remove(ctx context.Context, id int64) error {
	r.log.Debug("user repository: remove user %d", id)

	db, err := database.Open(r.dbPath)
	if err != nil {
		return fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error removing user %d: %w", id, err)
	}

	return nil
}
