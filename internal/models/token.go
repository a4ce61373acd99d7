package models

import "time"

// Token is an opaque bearer credential bound to exactly one user. At most
// one live token exists per user; issuing again returns the stored value.
type Token struct {
	ID      int64     `db:"id" json:"id"`
	UserID  int64     `db:"user_id" json:"userId"`
	Token   string    `db:"token" json:"token"`
	Expires time.Time `db:"expires" json:"expires"`
}
