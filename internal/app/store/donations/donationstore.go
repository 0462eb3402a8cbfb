// Package donationstore owns the donations collection and its id counter.
package donationstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openreuse/donatehub/internal/app/store/kv"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// ErrNotFound is returned for lookups and updates against an id no
// donation has.
var ErrNotFound = errors.New("donation not found")

// Store reads and writes the donations collection. Donation ids come
// from a counter persisted under its own key; it only moves forward
// during normal operation and rewinds to 1 when Reset wipes the
// collection.
type Store struct {
	kv kv.Store
}

// New returns a donation store over the given backend.
func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}

func (s *Store) load(ctx context.Context) ([]models.Donation, error) {
	raw, err := s.kv.Get(ctx, kv.KeyDonations)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load donations: %w", err)
	}
	var donations []models.Donation
	if err := json.Unmarshal(raw, &donations); err != nil {
		return nil, fmt.Errorf("decode donations: %w", err)
	}
	return donations, nil
}

func (s *Store) save(ctx context.Context, donations []models.Donation) error {
	raw, err := json.Marshal(donations)
	if err != nil {
		return fmt.Errorf("encode donations: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyDonations, raw); err != nil {
		return fmt.Errorf("save donations: %w", err)
	}
	return nil
}

// nextID increments and persists the donation id counter. The counter
// starts at 1 when the key is absent.
func (s *Store) nextID(ctx context.Context) (int, error) {
	next := 1
	raw, err := s.kv.Get(ctx, kv.KeyDonationIDCounter)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
	case err != nil:
		return 0, fmt.Errorf("load donation id counter: %w", err)
	default:
		n, convErr := strconv.Atoi(string(raw))
		if convErr != nil {
			return 0, fmt.Errorf("decode donation id counter: %w", convErr)
		}
		next = n
	}
	if err := s.kv.Set(ctx, kv.KeyDonationIDCounter, []byte(strconv.Itoa(next+1))); err != nil {
		return 0, fmt.Errorf("save donation id counter: %w", err)
	}
	return next, nil
}

// List returns every donation in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Donation, error) {
	return s.load(ctx)
}

// Get loads a donation by id. Returns ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, id int) (*models.Donation, error) {
	donations, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range donations {
		if donations[i].ID == id {
			d := donations[i]
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

// Create inserts a new donation with a fresh id. Status is forced to
// pending and both timestamps are set to now.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return models.Donation{}, err
	}

	now := time.Now().UTC()
	d.ID = id
	d.Status = models.StatusPending
	d.RejectionReason = ""
	d.CreatedAt = now
	d.UpdatedAt = now

	donations, err := s.load(ctx)
	if err != nil {
		return models.Donation{}, err
	}
	donations = append(donations, d)
	if err := s.save(ctx, donations); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// Update holds the fields a donation allows to change after creation.
// Nil pointers leave the stored value untouched.
type Update struct {
	Status          *models.DonationStatus
	RejectionReason *string
	ItemName        *string
	Quantity        *int
	Description     *string
	PickupAddress   *string
	PickupDate      *string
	PickupWindow    *models.PickupWindow
	ContactPhone    *string
}

// ApplyTo merges the set fields onto d.
func (upd Update) ApplyTo(d *models.Donation) {
	if upd.Status != nil {
		d.Status = *upd.Status
	}
	if upd.RejectionReason != nil {
		d.RejectionReason = *upd.RejectionReason
	}
	if upd.ItemName != nil {
		d.ItemName = *upd.ItemName
	}
	if upd.Quantity != nil {
		d.Quantity = *upd.Quantity
	}
	if upd.Description != nil {
		d.Description = *upd.Description
	}
	if upd.PickupAddress != nil {
		d.PickupAddress = *upd.PickupAddress
	}
	if upd.PickupDate != nil {
		d.PickupDate = *upd.PickupDate
	}
	if upd.PickupWindow != nil {
		d.PickupWindow = *upd.PickupWindow
	}
	if upd.ContactPhone != nil {
		d.ContactPhone = *upd.ContactPhone
	}
}

// UpdateDonation applies upd to the donation with the given id and
// persists the collection. UpdatedAt is bumped on every successful call,
// whether or not any field changed. Returns ErrNotFound for an unknown id.
func (s *Store) UpdateDonation(ctx context.Context, id int, upd Update) (*models.Donation, error) {
	donations, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range donations {
		if donations[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	upd.ApplyTo(&donations[idx])
	donations[idx].UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, donations); err != nil {
		return nil, err
	}
	d := donations[idx]
	return &d, nil
}

// ByDonor returns the donations a donor submitted, in insertion order.
func (s *Store) ByDonor(ctx context.Context, donorID int) ([]models.Donation, error) {
	return s.filter(ctx, func(d *models.Donation) bool {
		return d.DonorID == donorID
	})
}

// ByNgo returns the donations addressed to an NGO, in insertion order.
func (s *Store) ByNgo(ctx context.Context, ngoID int) ([]models.Donation, error) {
	return s.filter(ctx, func(d *models.Donation) bool {
		return d.NgoID == ngoID
	})
}

// ByStatus returns the donations currently in the given status.
func (s *Store) ByStatus(ctx context.Context, status models.DonationStatus) ([]models.Donation, error) {
	return s.filter(ctx, func(d *models.Donation) bool {
		return d.Status == status
	})
}

func (s *Store) filter(ctx context.Context, keep func(*models.Donation) bool) ([]models.Donation, error) {
	donations, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Donation
	for i := range donations {
		if keep(&donations[i]) {
			out = append(out, donations[i])
		}
	}
	return out, nil
}

// Reset clears the collection and rewinds the id counter to 1. Only the
// seed/reset path uses this.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.save(ctx, []models.Donation{}); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, kv.KeyDonationIDCounter, []byte("1")); err != nil {
		return fmt.Errorf("reset donation id counter: %w", err)
	}
	return nil
}
