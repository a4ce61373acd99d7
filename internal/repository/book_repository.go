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

const bookColumns = "id, user_id, title, author, year, read, rating"

// SQLiteBookRepository implements BookRepository against the embedded SQLite
// file. Reads share one pool-acquired handle for the repository's lifetime;
// every write opens a dedicated handle scoped to the single statement, so
// write transactions never touch the shared read handle.
type SQLiteBookRepository struct {
	db     *sqlx.DB
	pool   *database.Pool
	dbPath string
	log    *utils.Logger
}

// NewBookRepository creates a book repository. An unresolvable database path
// is a configuration error; callers treat it as fatal.
func NewBookRepository(cfg *config.Config, pool *database.Pool, log *utils.Logger) (*SQLiteBookRepository, error) {
	if cfg.Database.Path == "" {
		return nil, errors.New("book repository: database path is not configured")
	}

	db, err := pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("book repository: %w", err)
	}

	return &SQLiteBookRepository{
		db:     db,
		pool:   pool,
		dbPath: cfg.Database.Path,
		log:    log,
	}, nil
}

// Close returns the read handle to the pool.
func (r *SQLiteBookRepository) Close() {
	r.pool.Release(r.db)
}

// GetAll returns every book owned by the user.
func (r *SQLiteBookRepository) GetAll(ctx context.Context, userID int64) ([]models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE user_id = ? ORDER BY id`

	books := []models.Book{}
	if err := r.db.SelectContext(ctx, &books, query, userID); err != nil {
		return nil, fmt.Errorf("error getting books for user %d: %w", userID, err)
	}

	return books, nil
}

// GetByID returns the book only when both the id and the owning user match;
// otherwise it fails with ErrBookNotFound.
func (r *SQLiteBookRepository) GetByID(ctx context.Context, userID, bookID int64) (models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ? AND user_id = ?`

	var book models.Book
	err := r.db.GetContext(ctx, &book, query, bookID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Book{}, ErrBookNotFound
		}
		return models.Book{}, fmt.Errorf("error getting book %d: %w", bookID, err)
	}

	return book, nil
}

// Search returns the user's books whose author, title, or either contain the
// term. The match is a case-sensitive substring match.
func (r *SQLiteBookRepository) Search(ctx context.Context, userID int64, searchType SearchType, term string) ([]models.Book, error) {
	var query string
	pattern := "%" + term + "%"

	args := []interface{}{userID, pattern}
	switch searchType {
	case SearchAuthor:
		query = `SELECT ` + bookColumns + ` FROM books WHERE user_id = ? AND author LIKE ? ORDER BY id`
	case SearchTitle:
		query = `SELECT ` + bookColumns + ` FROM books WHERE user_id = ? AND title LIKE ? ORDER BY id`
	default:
		query = `SELECT ` + bookColumns + ` FROM books WHERE user_id = ? AND (author LIKE ? OR title LIKE ?) ORDER BY id`
		args = append(args, pattern)
	}

	books := []models.Book{}
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("error searching books for user %d: %w", userID, err)
	}

	return books, nil
}

// Count returns the number of books owned by the user.
func (r *SQLiteBookRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM books WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("error counting books for user %d: %w", userID, err)
	}
	return count, nil
}

// Store inserts a new book and returns its assigned id.
func (r *SQLiteBookRepository) Store(ctx context.Context, book models.Book) (int64, error) {
	r.log.Debug("book repository: store %s", book)

	db, err := database.Open(r.dbPath)
	if err != nil {
		return 0, fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	query := `INSERT INTO books (user_id, title, author, year, read, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))`

	result, err := db.ExecContext(ctx, query,
		book.UserID, book.Title, book.Author, book.Year, book.Read, book.Rating)
	if err != nil {
		return 0, fmt.Errorf("error storing book: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error getting new book id: %w", err)
	}

	r.log.Debug("book repository: book created with id %d", newID)
	return newID, nil
}

// Update rewrites an existing book. It soft-fails with false when the id and
// owning user do not match an existing row, so callers can tell bad input
// from a missing or foreign book without an error value.
func (r *SQLiteBookRepository) Update(ctx context.Context, book models.Book) (bool, error) {
	r.log.Debug("book repository: update %s", book)

	if book.ID < 1 || book.UserID < 1 {
		return false, nil
	}

	db, err := database.Open(r.dbPath)
	if err != nil {
		return false, fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	query := `UPDATE books SET title = ?, author = ?, year = ?, read = ?, rating = ?, updated_at = datetime('now')
		WHERE id = ? AND user_id = ?`

	result, err := db.ExecContext(ctx, query,
		book.Title, book.Author, book.Year, book.Read, book.Rating, book.ID, book.UserID)
	if err != nil {
		return false, fmt.Errorf("error updating book %d: %w", book.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking update result: %w", err)
	}

	return affected > 0, nil
}

// Remove deletes the book when it belongs to the user.
func (r *SQLiteBookRepository) Remove(ctx context.Context, userID, bookID int64) (bool, error) {
	r.log.Debug("book repository: remove book %d for user %d", bookID, userID)

	db, err := database.Open(r.dbPath)
	if err != nil {
		return false, fmt.Errorf("error opening write handle: %w", err)
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `DELETE FROM books WHERE id = ? AND user_id = ?`, bookID, userID)
	if err != nil {
		return false, fmt.Errorf("error removing book %d: %w", bookID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking delete result: %w", err)
	}

	return affected > 0, nil
}
