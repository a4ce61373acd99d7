package repository

import (
	"context"
	"errors"

	"github.com/dwbooks/bookmanager/internal/models"
)

// ErrBookNotFound is returned when no book row matches both the book id and
// the owning user. Ownership is enforced in the query itself, so a book that
// exists but belongs to someone else is indistinguishable from one that does
// not exist.
var ErrBookNotFound = errors.New("Book with that id does not exist for user.")

// SearchType selects which columns a book search matches against.
type SearchType int

const (
	SearchAuthor SearchType = iota
	SearchTitle
	SearchBoth
)

// ParseSearchType maps the query-string value onto a SearchType. Anything
// other than "author" or "title" means both.
func ParseSearchType(s string) SearchType {
	switch s {
	case "author":
		return SearchAuthor
	case "title":
		return SearchTitle
	default:
		return SearchBoth
	}
}

// BookRepository maps books to rows in the books table and owns all of its
// SQL. Every operation is scoped to the requesting user.
type BookRepository interface {
	GetAll(ctx context.Context, userID int64) ([]models.Book, error)
	GetByID(ctx context.Context, userID, bookID int64) (models.Book, error)
	Search(ctx context.Context, userID int64, searchType SearchType, term string) ([]models.Book, error)
	Count(ctx context.Context, userID int64) (int64, error)
	Store(ctx context.Context, book models.Book) (int64, error)
	Update(ctx context.Context, book models.Book) (bool, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
	Close()
}

// UserRepository maps users to rows in the users table.
type UserRepository interface {
	Store(ctx context.Context, user models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, id int64, password string) (bool, error)
	Remove(ctx context.Context, id int64) error
	Close()
}

// TokenRepository maps bearer tokens to rows in the tokens table.
type TokenRepository interface {
	Create(ctx context.Context, userID int64) (string, error)
	Exists(ctx context.Context, token string) (bool, error)
	GetUserIDForToken(ctx context.Context, token string) (int64, error)
	GetTokenForUserID(ctx context.Context, userID int64) (string, error)
	Remove(ctx context.Context, token string) (bool, error)
	Close()
}
