package testutil

import (
	"context"
	"testing"

	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/store/kv"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data over an
// in-memory backend.
type Fixtures struct {
	backend   kv.Store
	users     *userstore.Store
	donations *donationstore.Store
	t         *testing.T
}

// NewFixtures creates a Fixtures instance with a fresh in-memory store.
func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	backend := kv.NewMemoryStore()
	return &Fixtures{
		backend:   backend,
		users:     userstore.New(backend),
		donations: donationstore.New(backend),
		t:         t,
	}
}

// KV returns the underlying backend for direct access in tests.
func (f *Fixtures) KV() kv.Store { return f.backend }

// Users returns the user store over the fixture backend.
func (f *Fixtures) Users() *userstore.Store { return f.users }

// Donations returns the donation store over the fixture backend.
func (f *Fixtures) Donations() *donationstore.Store { return f.donations }

// CreateDonor creates a test donor account.
func (f *Fixtures) CreateDonor(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	u, err := f.users.Create(ctx, models.User{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     models.RoleDonor,
		Verified: true,
	})
	if err != nil {
		f.t.Fatalf("failed to create test donor: %v", err)
	}
	return u
}

// CreateNgo creates a test NGO account with complete organization
// details.
func (f *Fixtures) CreateNgo(ctx context.Context, name, email string, verified bool) models.User {
	f.t.Helper()

	u, err := f.users.Create(ctx, models.User{
		Name:                name,
		Email:               email,
		Password:            "secret123",
		Role:                models.RoleNgo,
		Verified:            verified,
		OrganizationName:    name + " Org",
		OrganizationAddress: "12 Relief Road",
		OrganizationPhone:   "555-0100",
	})
	if err != nil {
		f.t.Fatalf("failed to create test ngo: %v", err)
	}
	return u
}

// CreateAdmin creates a test admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	u, err := f.users.Create(ctx, models.User{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     models.RoleAdmin,
		Verified: true,
	})
	if err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return u
}

// CreateDonation creates a pending test donation from donor to ngo.
func (f *Fixtures) CreateDonation(ctx context.Context, donor, ngo models.User, itemType string, qty int) models.Donation {
	f.t.Helper()

	d, err := f.donations.Create(ctx, models.Donation{
		DonorID:       donor.ID,
		DonorName:     donor.Name,
		DonorEmail:    donor.Email,
		NgoID:         ngo.ID,
		NgoName:       ngo.DisplayName(),
		ItemType:      itemType,
		ItemName:      "Bundle",
		Quantity:      qty,
		PickupAddress: "45 Harbor Street",
		PickupDate:    "2026-09-15",
		PickupWindow:  models.WindowMorning,
		ContactPhone:  "555-0101",
	})
	if err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}
	return d
}
