// Package reports aggregates platform statistics for the admin surface.
package reports

import (
	"context"
	"sort"

	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// DefaultTopNgoLimit caps the NGO leaderboard when callers pass limit<=0.
const DefaultTopNgoLimit = 5

// Stats is the platform-wide snapshot shown on the admin report page.
type Stats struct {
	TotalUsers   int `json:"totalUsers"`
	TotalDonors  int `json:"totalDonors"`
	TotalNgos    int `json:"totalNgos"`
	VerifiedNgos int `json:"verifiedNgos"`
	PendingNgos  int `json:"pendingNgos"`

	TotalDonations     int `json:"totalDonations"`
	PendingDonations   int `json:"pendingDonations"`
	AcceptedDonations  int `json:"acceptedDonations"`
	PickedUpDonations  int `json:"pickedUpDonations"`
	CompletedDonations int `json:"completedDonations"`

	TotalItems int `json:"totalItems"`
}

// TypeStats is the per-item-type rollup.
type TypeStats struct {
	Count int `json:"count"`
	Items int `json:"items"`
}

// NgoRanking is a verified NGO annotated with its received-donation
// totals. Only public account fields are carried; the stored user is
// never serialized directly.
type NgoRanking struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	OrganizationName string `json:"organizationName"`
	DonationCount    int    `json:"donationCount"`
	TotalItems       int    `json:"totalItems"`
}

// Service computes report aggregates. It reads through the record stores
// rather than the kv layer so filtering rules live in one place.
type Service struct {
	users     *userstore.Store
	donations *donationstore.Store
}

// New returns a report service over the given stores.
func New(users *userstore.Store, donations *donationstore.Store) *Service {
	return &Service{users: users, donations: donations}
}

// Stats returns the platform-wide snapshot.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	donations, err := s.donations.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{
		TotalUsers:     len(users),
		TotalDonations: len(donations),
	}
	for i := range users {
		switch users[i].Role {
		case models.RoleDonor:
			out.TotalDonors++
		case models.RoleNgo:
			out.TotalNgos++
			if users[i].Verified {
				out.VerifiedNgos++
			} else {
				out.PendingNgos++
			}
		}
	}
	for i := range donations {
		switch donations[i].Status {
		case models.StatusPending:
			out.PendingDonations++
		case models.StatusAccepted:
			out.AcceptedDonations++
		case models.StatusPickedUp:
			out.PickedUpDonations++
		case models.StatusDelivered:
			out.CompletedDonations++
		}
		out.TotalItems += donations[i].Quantity
	}
	return out, nil
}

// ByType returns per-item-type counts and item totals. Donations with an
// empty item type land in the "other" bucket.
func (s *Service) ByType(ctx context.Context) (map[string]TypeStats, error) {
	donations, err := s.donations.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]TypeStats)
	for i := range donations {
		typ := donations[i].ItemType
		if typ == "" {
			typ = "other"
		}
		ts := out[typ]
		ts.Count++
		ts.Items += donations[i].Quantity
		out[typ] = ts
	}
	return out, nil
}

// TopNgos ranks verified NGOs by donations received, descending, at most
// limit entries. NGOs with equal counts keep their listing order. A
// limit <= 0 falls back to DefaultTopNgoLimit.
func (s *Service) TopNgos(ctx context.Context, limit int) ([]NgoRanking, error) {
	if limit <= 0 {
		limit = DefaultTopNgoLimit
	}

	ngos, err := s.users.VerifiedNgos(ctx)
	if err != nil {
		return nil, err
	}
	donations, err := s.donations.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]TypeStats)
	for i := range donations {
		if donations[i].NgoID == 0 {
			continue
		}
		ts := counts[donations[i].NgoID]
		ts.Count++
		ts.Items += donations[i].Quantity
		counts[donations[i].NgoID] = ts
	}

	ranked := make([]NgoRanking, 0, len(ngos))
	for i := range ngos {
		ts := counts[ngos[i].ID]
		ranked = append(ranked, NgoRanking{
			ID:               ngos[i].ID,
			Name:             ngos[i].Name,
			OrganizationName: ngos[i].OrganizationName,
			DonationCount:    ts.Count,
			TotalItems:       ts.Items,
		})
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].DonationCount > ranked[b].DonationCount
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
