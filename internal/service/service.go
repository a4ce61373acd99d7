package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dwbooks/bookmanager/internal/models"
	"github.com/dwbooks/bookmanager/internal/repository"
	"github.com/dwbooks/bookmanager/internal/utils"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	RegisterUser(ctx context.Context, user models.User) (string, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
	LogoutUser(ctx context.Context, token string) (bool, error)
	UserIDForToken(ctx context.Context, token string) (int64, error)

	// Book operations
	ListBooks(ctx context.Context, userID int64) ([]models.Book, error)
	GetBook(ctx context.Context, userID, bookID int64) (models.Book, error)
	SearchBooks(ctx context.Context, userID int64, searchType repository.SearchType, term string) ([]models.Book, error)
	CreateBook(ctx context.Context, userID int64, book models.Book) (int64, error)
	UpdateBook(ctx context.Context, userID, bookID int64, book models.Book) (bool, error)
	RemoveBook(ctx context.Context, userID, bookID int64) (bool, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	books      repository.BookRepository
	users      repository.UserRepository
	tokens     repository.TokenRepository
	bcryptCost int
	log        *utils.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(
	books repository.BookRepository,
	users repository.UserRepository,
	tokens repository.TokenRepository,
	bcryptCost int,
	log *utils.Logger,
) Service {
	return &DefaultService{
		books:      books,
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// RegisterUser persists the user and mints a token for the new id. The
// password is stored as a bcrypt hash, never as plaintext. An empty token
// string means the registration failed.
func (s *DefaultService) RegisterUser(ctx context.Context, user models.User) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = string(hashed)

	newID, err := s.users.Store(ctx, user)
	if err != nil {
		return "", fmt.Errorf("error creating user: %w", err)
	}
	if newID == 0 {
		return "", nil
	}

	token, err := s.tokens.Create(ctx, newID)
	if err != nil {
		return "", fmt.Errorf("error creating token: %w", err)
	}

	s.log.Info("registered user %d", newID)
	return token, nil
}

// LoginUser verifies the credentials against the stored hash and issues a
// token. Issuance is idempotent; a repeat login returns the existing token.
// An empty token string means the login failed.
func (s *DefaultService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return "", nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil
	}

	token, err := s.tokens.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("error creating token: %w", err)
	}

	return token, nil
}

// LogoutUser deletes the token row and reports whether one was removed.
func (s *DefaultService) LogoutUser(ctx context.Context, token string) (bool, error) {
	return s.tokens.Remove(ctx, token)
}

// UserIDForToken resolves a bearer token to a user id; 0 means the token is
// unknown.
func (s *DefaultService) UserIDForToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}

	exists, err := s.tokens.Exists(ctx, token)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	return s.tokens.GetUserIDForToken(ctx, token)
}

// ListBooks returns all books owned by the user.
func (s *DefaultService) ListBooks(ctx context.Context, userID int64) ([]models.Book, error) {
	return s.books.GetAll(ctx, userID)
}

// GetBook returns the book when both id and owner match.
func (s *DefaultService) GetBook(ctx context.Context, userID, bookID int64) (models.Book, error) {
	return s.books.GetByID(ctx, userID, bookID)
}

// SearchBooks performs a substring search over the user's books.
func (s *DefaultService) SearchBooks(ctx context.Context, userID int64, searchType repository.SearchType, term string) ([]models.Book, error) {
	return s.books.Search(ctx, userID, searchType, term)
}

// CreateBook stores a new book owned by the user and returns its id. The
// owner always comes from the authenticated token, never from the payload.
func (s *DefaultService) CreateBook(ctx context.Context, userID int64, book models.Book) (int64, error) {
	book.ID = 0
	book.UserID = userID
	return s.books.Store(ctx, book)
}

// UpdateBook rewrites an existing book. False without an error means the
// book does not exist or does not belong to the user.
func (s *DefaultService) UpdateBook(ctx context.Context, userID, bookID int64, book models.Book) (bool, error) {
	book.ID = bookID
	book.UserID = userID
	return s.books.Update(ctx, book)
}

// RemoveBook deletes the book when it belongs to the user.
func (s *DefaultService) RemoveBook(ctx context.Context, userID, bookID int64) (bool, error) {
	return s.books.Remove(ctx, userID, bookID)
}
