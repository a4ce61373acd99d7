package models

import "fmt"

// Request models
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type LogoutRequest struct {
	Token *string `json:"token"`
}

// Validate checks the login request fields by name.
func (r LoginRequest) Validate() error {
	if r.Email == nil || *r.Email == "" {
		return fmt.Errorf("%w: field %q must be a non-empty string", ErrValidation, "email")
	}
	if r.Password == nil || *r.Password == "" {
		return fmt.Errorf("%w: field %q must be a non-empty string", ErrValidation, "password")
	}
	return nil
}

// Validate checks the logout request fields by name.
func (r LogoutRequest) Validate() error {
	if r.Token == nil || *r.Token == "" {
		return fmt.Errorf("%w: field %q must be a non-empty string", ErrValidation, "token")
	}
	return nil
}

// Response models
type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type BooksResponse struct {
	Message string `json:"message"`
	Books   []Book `json:"books"`
}

type BookResponse struct {
	Message string `json:"message"`
	Book    *Book  `json:"book"`
}

type BookSavedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
