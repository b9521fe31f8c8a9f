package audit

import (
	"context"
	"testing"
	"time"
)

func TestService_AppendRequiresTypeAndSubject(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), Event{UserID: "u"}); err == nil {
		t.Fatalf("expected error")
	}
	if err := svc.Append(context.Background(), Event{Type: EventTypeEmailVerified}); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.Events()) != 0 {
		t.Fatalf("expected nothing appended")
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return now }

	if err := svc.LogVerificationTokenIssued(context.Background(), "alice", Meta{IPAddress: "1.2.3.4", RequestID: "r1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.LogSessionTokenIssued(context.Background(), "u1", Meta{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != EventTypeVerificationTokenIssued || evs[0].Username != "alice" {
		t.Fatalf("unexpected first event: %+v", evs[0])
	}
	if evs[0].IPAddress != "1.2.3.4" || evs[0].RequestID != "r1" {
		t.Fatalf("expected request meta captured")
	}
	if evs[0].ID == "" || evs[0].ID == evs[1].ID {
		t.Fatalf("expected distinct ids")
	}
	if !evs[1].CreatedAt.Equal(now) {
		t.Fatalf("expected created_at from clock, got %v", evs[1].CreatedAt)
	}
}
