// Package seed installs the demo dataset on first boot and restores it
// on an admin-triggered reset.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/store/kv"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// DemoUsers returns the fixed four-account demo dataset: an admin, a
// donor, a verified NGO, and an unverified NGO. Passwords match the
// demo credentials printed on the login page.
func DemoUsers() []models.User {
	now := time.Now().UTC()
	return []models.User{
		{
			ID:        1,
			Name:      "Admin User",
			Email:     "admin@demo.com",
			Password:  "admin123",
			Role:      models.RoleAdmin,
			Verified:  true,
			CreatedAt: now,
		},
		{
			ID:        2,
			Name:      "Donor User",
			Email:     "donor@demo.com",
			Password:  "donor123",
			Role:      models.RoleDonor,
			Verified:  true,
			CreatedAt: now,
		},
		{
			ID:                  3,
			Name:                "NGO Organization",
			Email:               "ngo@demo.com",
			Password:            "ngo123",
			Role:                models.RoleNgo,
			Verified:            true,
			OrganizationName:    "Helping Hands NGO",
			OrganizationAddress: "123 Charity Street, City, State 12345",
			OrganizationPhone:   "+1-234-567-8900",
			CreatedAt:           now,
		},
		{
			ID:                  4,
			Name:                "Test NGO",
			Email:               "testngo@demo.com",
			Password:            "test123",
			Role:                models.RoleNgo,
			Verified:            false,
			OrganizationName:    "Test Foundation",
			OrganizationAddress: "456 Test Avenue, City, State 67890",
			OrganizationPhone:   "+1-987-654-3210",
			CreatedAt:           now,
		},
	}
}

// Seeder installs demo data.
type Seeder struct {
	kv        kv.Store
	users     *userstore.Store
	donations *donationstore.Store
	logger    *zap.Logger
}

// New returns a seeder over the given backend and stores.
func New(backend kv.Store, users *userstore.Store, donations *donationstore.Store, logger *zap.Logger) *Seeder {
	return &Seeder{kv: backend, users: users, donations: donations, logger: logger}
}

// Ensure installs each collection only if its key is absent, so existing
// data always survives a restart. Safe to call on every boot.
func (s *Seeder) Ensure(ctx context.Context) error {
	if _, err := s.kv.Get(ctx, kv.KeyUsers); errors.Is(err, kv.ErrKeyNotFound) {
		if err := s.users.Replace(ctx, DemoUsers()); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		s.logger.Info("seeded demo users", zap.Int("count", len(DemoUsers())))
	} else if err != nil {
		return fmt.Errorf("check users key: %w", err)
	}

	if _, err := s.kv.Get(ctx, kv.KeyDonations); errors.Is(err, kv.ErrKeyNotFound) {
		if err := s.kv.Set(ctx, kv.KeyDonations, []byte("[]")); err != nil {
			return fmt.Errorf("seed donations: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check donations key: %w", err)
	}

	if _, err := s.kv.Get(ctx, kv.KeyDonationIDCounter); errors.Is(err, kv.ErrKeyNotFound) {
		if err := s.kv.Set(ctx, kv.KeyDonationIDCounter, []byte("1")); err != nil {
			return fmt.Errorf("seed donation id counter: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("check donation id counter key: %w", err)
	}

	return nil
}

// Reset discards every collection and reinstalls the demo dataset. The
// donation id counter rewinds to 1.
func (s *Seeder) Reset(ctx context.Context) error {
	if err := s.users.Replace(ctx, DemoUsers()); err != nil {
		return fmt.Errorf("reset users: %w", err)
	}
	if err := s.donations.Reset(ctx); err != nil {
		return fmt.Errorf("reset donations: %w", err)
	}
	if err := s.kv.Delete(ctx, kv.KeyAuditLog); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("reset audit log: %w", err)
	}
	s.logger.Warn("demo data reset")
	return nil
}
