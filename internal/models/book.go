package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrValidation marks malformed or incomplete JSON input to an entity
// constructor. Callers map it to an HTTP status; the text names the
// offending field.
var ErrValidation = errors.New("invalid input")

// Book represents a book record owned by a user. An ID or UserID of 0 means
// the value has not been assigned yet.
type Book struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"userId"`
	Title  string `db:"title" json:"title"`
	Author string `db:"author" json:"author"`
	Year   string `db:"year" json:"year"`
	Read   bool   `db:"read" json:"read"`
	Rating int    `db:"rating" json:"rating"`
}

// NewBook builds a book from discrete fields. Values are stored verbatim;
// validating them is the caller's job.
func NewBook(id, userID int64, title, author, year string, read bool, rating int) Book {
	return Book{
		ID:     id,
		UserID: userID,
		Title:  title,
		Author: author,
		Year:   year,
		Read:   read,
		Rating: rating,
	}
}

// bookJSON mirrors Book with pointer fields so parsing can tell a missing
// field from a zero value.
type bookJSON struct {
	ID     *int64  `json:"id"`
	UserID *int64  `json:"userId"`
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *string `json:"year"`
	Read   *bool   `json:"read"`
	Rating *int    `json:"rating"`
}

// BookFromJSON parses and validates a JSON object into a Book. Required
// fields are checked by name: title, author and year must be strings, read a
// boolean, rating an integer in [0,5]. id and userId are optional and
// default to 0.
func BookFromJSON(data []byte) (Book, error) {
	var raw bookJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Book{}, validationError(err)
	}

	if raw.Title == nil {
		return Book{}, fmt.Errorf("%w: field %q must be a string", ErrValidation, "title")
	}
	if raw.Author == nil {
		return Book{}, fmt.Errorf("%w: field %q must be a string", ErrValidation, "author")
	}
	if raw.Year == nil {
		return Book{}, fmt.Errorf("%w: field %q must be a string", ErrValidation, "year")
	}
	if raw.Read == nil {
		return Book{}, fmt.Errorf("%w: field %q must be a boolean", ErrValidation, "read")
	}
	if raw.Rating == nil {
		return Book{}, fmt.Errorf("%w: field %q must be an integer", ErrValidation, "rating")
	}
	if *raw.Rating < 0 || *raw.Rating > 5 {
		return Book{}, fmt.Errorf("%w: field %q must be an integer between 0 and 5", ErrValidation, "rating")
	}

	book := Book{
		Title:  *raw.Title,
		Author: *raw.Author,
		Year:   *raw.Year,
		Read:   *raw.Read,
		Rating: *raw.Rating,
	}
	if raw.ID != nil {
		book.ID = *raw.ID
	}
	if raw.UserID != nil {
		book.UserID = *raw.UserID
	}

	return book, nil
}

// ToJSON renders the book as a JSON object. Key order is unspecified.
func (b Book) ToJSON() ([]byte, error) {
	return json.Marshal(b)
}

// String renders a fixed-order, dash-separated debug representation. The
// read flag is rendered as 1 or 0.
func (b Book) String() string {
	read := 0
	if b.Read {
		read = 1
	}
	return fmt.Sprintf("%d - %d - %s - %s - %s - %d - %d",
		b.ID, b.UserID, b.Title, b.Author, b.Year, read, b.Rating)
}

// validationError turns a json decoding error into an ErrValidation,
// keeping the offending field name when the decoder reports one.
func validationError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Errorf("%w: field %q must be a %s", ErrValidation, typeErr.Field, typeErr.Type.Kind())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
