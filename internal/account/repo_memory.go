package account

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is a simple in-memory account repository for tests and local development.
// It is not intended for production use.
type MemoryRepo struct {
	mu       sync.Mutex
	accounts map[string]Account // key: user_id
}

func NewMemoryRepo(seed ...Account) *MemoryRepo {
	r := &MemoryRepo{accounts: make(map[string]Account, len(seed))}
	for _, a := range seed {
		r.accounts[a.UserID] = a
	}
	return r
}

func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) GetByUsername(ctx context.Context, username string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *MemoryRepo) MarkEmailVerified(ctx context.Context, username string, at time.Time) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.accounts {
		if a.Username != username {
			continue
		}
		if a.EmailVerifiedAt == nil {
			a.EmailVerifiedAt = &at
			r.accounts[id] = a
		}
		return a, nil
	}
	return Account{}, ErrNotFound
}
