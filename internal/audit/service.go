package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It MUST be append-only; no Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records authentication events.
// Callers treat audit logging as best-effort and never fail a request on it.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}
	if e.UserID == "" && e.Username == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Meta carries request attributes shared by all events of one request.
type Meta struct {
	IPAddress string
	RequestID string
}

func (s *Service) LogSessionTokenIssued(ctx context.Context, userID string, m Meta) error {
	return s.Append(ctx, Event{
		Type:      EventTypeSessionTokenIssued,
		UserID:    userID,
		IPAddress: m.IPAddress,
		RequestID: m.RequestID,
	})
}

func (s *Service) LogVerificationTokenIssued(ctx context.Context, username string, m Meta) error {
	return s.Append(ctx, Event{
		Type:      EventTypeVerificationTokenIssued,
		Username:  username,
		IPAddress: m.IPAddress,
		RequestID: m.RequestID,
		Message:   "verification token issued",
	})
}

func (s *Service) LogEmailVerified(ctx context.Context, userID, username string, m Meta) error {
	return s.Append(ctx, Event{
		Type:      EventTypeEmailVerified,
		UserID:    userID,
		Username:  username,
		IPAddress: m.IPAddress,
		RequestID: m.RequestID,
	})
}
