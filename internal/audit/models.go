package audit

import "time"

// Event is an immutable, append-only record of an authentication action.
//
// Invariants:
// - Events are never updated or deleted.
// - Either UserID or Username identifies the subject.
// - Tokens are never stored; only the fact that one was issued.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	UserID   string `json:"user_id,omitempty" db:"user_id"`
	Username string `json:"username,omitempty" db:"username"`

	// IPAddress is the client IP as resolved by the HTTP layer.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`
	RequestID string `json:"request_id,omitempty" db:"request_id"`

	Message   string    `json:"message,omitempty" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeSessionTokenIssued      EventType = "session_token_issued"
	EventTypeVerificationTokenIssued EventType = "verification_token_issued"
	EventTypeEmailVerified           EventType = "email_verified"
)
