// Package lifecycle is the sole authority over donation status
// transitions. Handlers never write a status through the donation store
// directly; every change funnels through here so actor and state checks
// cannot be bypassed.
package lifecycle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/system/metrics"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// DefaultRejectionReason is stored when an NGO rejects without giving one.
const DefaultRejectionReason = "Rejected by NGO"

var (
	// ErrInvalidTransition is returned when the donation's current
	// status does not allow the requested change.
	ErrInvalidTransition = errors.New("donation status does not allow this action")

	// ErrNotDonationOwner is returned when a donor acts on a donation
	// they did not submit.
	ErrNotDonationOwner = errors.New("donation belongs to a different donor")

	// ErrNotAssignedNgo is returned when an NGO acts on a donation
	// addressed to a different NGO.
	ErrNotAssignedNgo = errors.New("donation is addressed to a different ngo")
)

// Controller applies donation lifecycle transitions.
type Controller struct {
	donations *donationstore.Store
	audit     *audit.Store
	metrics   metrics.Recorder
	logger    *zap.Logger
}

// New returns a lifecycle controller.
func New(donations *donationstore.Store, auditTrail *audit.Store, rec metrics.Recorder, logger *zap.Logger) *Controller {
	return &Controller{donations: donations, audit: auditTrail, metrics: rec, logger: logger}
}

// Cancel withdraws a pending donation. Only the submitting donor may
// cancel, and only while the request is still pending.
func (c *Controller) Cancel(ctx context.Context, donorID, donationID int) (*models.Donation, error) {
	d, err := c.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.DonorID != donorID {
		return nil, ErrNotDonationOwner
	}
	if d.Status != models.StatusPending {
		return nil, ErrInvalidTransition
	}
	return c.apply(ctx, d, donorID, models.StatusCancelled, "", audit.EventDonationCancelled)
}

// Accept moves a pending donation to accepted. Only the assigned NGO.
func (c *Controller) Accept(ctx context.Context, ngoID, donationID int) (*models.Donation, error) {
	d, err := c.forNgo(ctx, ngoID, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.StatusPending {
		return nil, ErrInvalidTransition
	}
	return c.apply(ctx, d, ngoID, models.StatusAccepted, "", audit.EventDonationAccepted)
}

// Reject declines a pending or accepted donation. An empty reason is
// replaced with DefaultRejectionReason. Only the assigned NGO.
func (c *Controller) Reject(ctx context.Context, ngoID, donationID int, reason string) (*models.Donation, error) {
	d, err := c.forNgo(ctx, ngoID, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.StatusPending && d.Status != models.StatusAccepted {
		return nil, ErrInvalidTransition
	}
	if reason == "" {
		reason = DefaultRejectionReason
	}
	return c.apply(ctx, d, ngoID, models.StatusRejected, reason, audit.EventDonationRejected)
}

// MarkPickedUp moves an accepted donation to picked_up. Only the
// assigned NGO.
func (c *Controller) MarkPickedUp(ctx context.Context, ngoID, donationID int) (*models.Donation, error) {
	d, err := c.forNgo(ctx, ngoID, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.StatusAccepted {
		return nil, ErrInvalidTransition
	}
	return c.apply(ctx, d, ngoID, models.StatusPickedUp, "", audit.EventDonationPickedUp)
}

// MarkDelivered moves a picked_up donation to delivered. Only the
// assigned NGO.
func (c *Controller) MarkDelivered(ctx context.Context, ngoID, donationID int) (*models.Donation, error) {
	d, err := c.forNgo(ctx, ngoID, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.StatusPickedUp {
		return nil, ErrInvalidTransition
	}
	return c.apply(ctx, d, ngoID, models.StatusDelivered, "", audit.EventDonationDelivered)
}

func (c *Controller) forNgo(ctx context.Context, ngoID, donationID int) (*models.Donation, error) {
	d, err := c.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.NgoID != ngoID {
		return nil, ErrNotAssignedNgo
	}
	return d, nil
}

func (c *Controller) apply(ctx context.Context, d *models.Donation, actorID int, to models.DonationStatus, reason, eventType string) (*models.Donation, error) {
	from := d.Status

	upd := donationstore.Update{Status: &to}
	if reason != "" {
		upd.RejectionReason = &reason
	}
	updated, err := c.donations.UpdateDonation(ctx, d.ID, upd)
	if err != nil {
		return nil, err
	}

	c.metrics.RecordTransition(string(from), string(to))
	// Audit is best effort; a write failure must not undo the transition.
	auditErr := c.audit.Log(ctx, audit.Event{
		Category:  audit.CategoryDonation,
		EventType: eventType,
		ActorID:   actorID,
		SubjectID: d.ID,
		Success:   true,
		Details: map[string]string{
			"from": string(from),
			"to":   string(to),
		},
	})
	if auditErr != nil {
		c.logger.Warn("audit write failed",
			zap.Int("donation_id", d.ID),
			zap.Error(auditErr))
	}

	c.logger.Info("donation transition",
		zap.Int("donation_id", d.ID),
		zap.Int("actor_id", actorID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return updated, nil
}
