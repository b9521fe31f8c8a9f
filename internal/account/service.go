package account

import (
	"context"
	"time"
)

// Service resolves token subjects to accounts and records email confirmation.
type Service struct {
	repo Repository
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Lookup returns the account a session token subject refers to.
func (s *Service) Lookup(ctx context.Context, userID string) (Account, error) {
	if userID == "" {
		return Account{}, ErrInvalidArgument
	}
	return s.repo.GetByUserID(ctx, userID)
}

// RequireUsername returns the account for username or ErrNotFound.
func (s *Service) RequireUsername(ctx context.Context, username string) (Account, error) {
	if username == "" {
		return Account{}, ErrInvalidArgument
	}
	return s.repo.GetByUsername(ctx, username)
}

// ConfirmEmail marks the account's email as verified. Repeated confirmations
// succeed and keep the original timestamp.
func (s *Service) ConfirmEmail(ctx context.Context, username string) (Account, error) {
	if username == "" {
		return Account{}, ErrInvalidArgument
	}
	return s.repo.MarkEmailVerified(ctx, username, s.clock().UTC())
}
