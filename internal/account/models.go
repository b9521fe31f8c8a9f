package account

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("account: not found")
	ErrInvalidArgument = errors.New("account: invalid argument")
)

// Account is the identity a session token subject (UserID) or a verification
// token username resolves to.
type Account struct {
	UserID   string `json:"user_id" db:"user_id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`

	// EmailVerifiedAt is nil until the first successful email confirmation.
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty" db:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

func (a Account) EmailVerified() bool { return a.EmailVerifiedAt != nil }
