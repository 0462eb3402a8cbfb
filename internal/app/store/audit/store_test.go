package audit_test

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/store/audit"
	"github.com/openreuse/donatehub/internal/app/store/kv"
)

func newStore(t *testing.T) *audit.Store {
	t.Helper()
	return audit.New(kv.NewMemoryStore(), zap.NewNop())
}

func TestLogFillsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   2,
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	events, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len = %d, want 1", len(events))
	}
	if events[0].ID == "" {
		t.Error("ID not assigned")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("Timestamp not assigned")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i := 1; i <= 3; i++ {
		err := s.Log(ctx, audit.Event{
			Category:  audit.CategoryDonation,
			EventType: audit.EventDonationSubmitted,
			SubjectID: i,
			Success:   true,
		})
		if err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	events, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].SubjectID != 3 || events[1].SubjectID != 2 {
		t.Errorf("order = %d,%d; want 3,2", events[0].SubjectID, events[1].SubjectID)
	}
}

func TestByActor(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, actor := range []int{2, 3, 2} {
		err := s.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			ActorID:   actor,
			Success:   true,
		})
		if err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	events, err := s.ByActor(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ByActor: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("len = %d, want 2", len(events))
	}
	for _, e := range events {
		if e.ActorID != 2 {
			t.Errorf("ActorID = %d, want 2", e.ActorID)
		}
	}
}

func TestTrailIsCapped(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for i := 0; i < 520; i++ {
		err := s.Log(ctx, audit.Event{
			Category:      audit.CategoryAuth,
			EventType:     audit.EventLoginFailedUserNotFound,
			FailureReason: fmt.Sprintf("attempt %d", i),
		})
		if err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	events, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 500 {
		t.Fatalf("len = %d, want 500", len(events))
	}
	// Newest survives, oldest dropped.
	if events[0].FailureReason != "attempt 519" {
		t.Errorf("newest = %q", events[0].FailureReason)
	}
	if events[len(events)-1].FailureReason != "attempt 20" {
		t.Errorf("oldest = %q", events[len(events)-1].FailureReason)
	}
}
