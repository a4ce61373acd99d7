package models

import (
	"encoding/json"
	"fmt"
)

// User represents a registered user. The password field holds a bcrypt hash
// once the user has been persisted; it is never serialized into responses.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

// NewUser builds a user from discrete fields, stored verbatim.
func NewUser(id int64, name, email, password string) User {
	return User{ID: id, Name: name, Email: email, Password: password}
}

type userJSON struct {
	ID       *int64  `json:"id"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserFromJSON parses and validates a JSON object into a User. name, email
// and password are required non-empty strings; id is optional and defaults
// to 0.
func UserFromJSON(data []byte) (User, error) {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return User{}, validationError(err)
	}

	if raw.Name == nil || *raw.Name == "" {
		return User{}, fmt.Errorf("%w: field %q must be a non-empty string", ErrValidation, "name")
	}
	if raw.Email == nil || *raw.Email == "" {
		return User{}, fmt.Errorf("%w: field %q must be a non-empty string", ErrValidation, "email")
	}
	if raw.Password == nil || *raw.Password == "" {
		return User{}, fmt.Errorf("%w: field %q must be a non-empty string", ErrValidation, "password")
	}

	user := User{
		Name:     *raw.Name,
		Email:    *raw.Email,
		Password: *raw.Password,
	}
	if raw.ID != nil {
		user.ID = *raw.ID
	}

	return user, nil
}

// ToJSON renders the user as a JSON object, without the password.
func (u User) ToJSON() ([]byte, error) {
	return json.Marshal(u)
}

// String renders a fixed-order, dash-separated debug representation. The
// password is elided so the value is safe to log.
func (u User) String() string {
	return fmt.Sprintf("%d - %s - %s - [redacted]", u.ID, u.Name, u.Email)
}
