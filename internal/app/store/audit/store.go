// internal/app/store/audit/store.go
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/store/kv"
)

// Event categories
const (
	CategoryAuth     = "auth"
	CategoryAdmin    = "admin"
	CategoryDonation = "donation"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedRoleMismatch  = "login_failed_role_mismatch"
	EventLoginFailedNotVerified   = "login_failed_not_verified"
	EventLogout                   = "logout"
	EventUserRegistered           = "user_registered"
)

// Admin event types
const (
	EventNgoVerified            = "ngo_verified"
	EventNgoVerificationRevoked = "ngo_verification_revoked"
	EventNgoApplicationRejected = "ngo_application_rejected"
	EventDataReset              = "data_reset"
)

// Donation event types
const (
	EventDonationSubmitted = "donation_submitted"
	EventDonationAccepted  = "donation_accepted"
	EventDonationRejected  = "donation_rejected"
	EventDonationPickedUp  = "donation_picked_up"
	EventDonationDelivered = "donation_delivered"
	EventDonationCancelled = "donation_cancelled"
)

// maxEvents caps the trail; the oldest entries fall off first.
const maxEvents = 500

// Event represents a single audit trail entry.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Category  string `json:"category"`
	EventType string `json:"eventType"`

	// ActorID is the signed-in user performing the action; zero for
	// anonymous actions such as failed logins.
	ActorID int `json:"actorId,omitempty"`
	// SubjectID names the affected record: a user id for account
	// events, a donation id for lifecycle events.
	SubjectID int `json:"subjectId,omitempty"`

	Success       bool   `json:"success"`
	FailureReason string `json:"failureReason,omitempty"`

	Details map[string]string `json:"details,omitempty"`
}

// Store manages the audit trail. The whole trail lives as one JSON
// array under the kv key "auditLog", newest entry last, capped at
// maxEvents. Every entry is also mirrored to the structured log.
type Store struct {
	kv     kv.Store
	logger *zap.Logger
}

// New creates a new audit Store.
func New(backend kv.Store, logger *zap.Logger) *Store {
	return &Store{kv: backend, logger: logger}
}

func (s *Store) load(ctx context.Context) ([]Event, error) {
	raw, err := s.kv.Get(ctx, kv.KeyAuditLog)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode audit log: %w", err)
	}
	return events, nil
}

// Log records an audit event. ID and Timestamp are filled in when zero.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	events = append(events, event)
	if len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode audit log: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyAuditLog, raw); err != nil {
		return fmt.Errorf("save audit log: %w", err)
	}

	s.logger.Info("audit event",
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Int("actor_id", event.ActorID),
		zap.Int("subject_id", event.SubjectID),
		zap.Bool("success", event.Success),
	)
	return nil
}

// Recent retrieves the most recent events, newest first. A limit <= 0
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	events, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ByActor retrieves the most recent events performed by a user, newest
// first.
func (s *Store) ByActor(ctx context.Context, actorID, limit int) ([]Event, error) {
	events, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []Event
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].ActorID != actorID {
			continue
		}
		out = append(out, events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
