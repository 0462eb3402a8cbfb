package reports_test

import (
	"context"
	"testing"

	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/store/kv"
	"github.com/openreuse/donatehub/internal/app/store/reports"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/domain/models"
)

type fixture struct {
	users     *userstore.Store
	donations *donationstore.Store
	reports   *reports.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := kv.NewMemoryStore()
	users := userstore.New(backend)
	donations := donationstore.New(backend)
	return &fixture{
		users:     users,
		donations: donations,
		reports:   reports.New(users, donations),
	}
}

func (f *fixture) addNgo(t *testing.T, name string, verified bool) models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), models.User{
		Name:                name,
		Email:               name + "@example.com",
		Password:            "secret123",
		Role:                models.RoleNgo,
		Verified:            verified,
		OrganizationName:    name + " Org",
		OrganizationAddress: "12 Relief Road",
		OrganizationPhone:   "555-0100",
	})
	if err != nil {
		t.Fatalf("create ngo %s: %v", name, err)
	}
	return u
}

func (f *fixture) addDonor(t *testing.T, name string) models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret123",
		Role:     models.RoleDonor,
	})
	if err != nil {
		t.Fatalf("create donor %s: %v", name, err)
	}
	return u
}

func (f *fixture) addDonation(t *testing.T, donorID, ngoID int, itemType string, qty int, status models.DonationStatus) {
	t.Helper()
	ctx := context.Background()
	d, err := f.donations.Create(ctx, models.Donation{
		DonorID:       donorID,
		NgoID:         ngoID,
		ItemType:      itemType,
		ItemName:      "Bundle",
		Quantity:      qty,
		PickupAddress: "45 Harbor Street",
		PickupDate:    "2026-09-15",
		PickupWindow:  models.WindowAfternoon,
	})
	if err != nil {
		t.Fatalf("create donation: %v", err)
	}
	if status != models.StatusPending {
		if _, err := f.donations.UpdateDonation(ctx, d.ID, donationstore.Update{Status: &status}); err != nil {
			t.Fatalf("set status: %v", err)
		}
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	donor := f.addDonor(t, "aarav")
	ngoA := f.addNgo(t, "helpers", true)
	f.addNgo(t, "newcomers", false)

	f.addDonation(t, donor.ID, ngoA.ID, "clothes", 2, models.StatusPending)
	f.addDonation(t, donor.ID, ngoA.ID, "food", 5, models.StatusAccepted)
	f.addDonation(t, donor.ID, ngoA.ID, "books", 3, models.StatusDelivered)

	got, err := f.reports.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	want := reports.Stats{
		TotalUsers:         3,
		TotalDonors:        1,
		TotalNgos:          2,
		VerifiedNgos:       1,
		PendingNgos:        1,
		TotalDonations:     3,
		PendingDonations:   1,
		AcceptedDonations:  1,
		CompletedDonations: 1,
		TotalItems:         10,
	}
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
}

func TestStatsMoveOnSubmission(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	donor := f.addDonor(t, "aarav")
	ngo := f.addNgo(t, "helpers", true)

	before, err := f.reports.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	f.addDonation(t, donor.ID, ngo.ID, "toys", 4, models.StatusPending)

	after, err := f.reports.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if after.PendingDonations != before.PendingDonations+1 {
		t.Errorf("PendingDonations = %d, want %d", after.PendingDonations, before.PendingDonations+1)
	}
	if after.TotalItems != before.TotalItems+4 {
		t.Errorf("TotalItems = %d, want %d", after.TotalItems, before.TotalItems+4)
	}
}

func TestByTypeBucketsEmptyAsOther(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	donor := f.addDonor(t, "aarav")
	ngo := f.addNgo(t, "helpers", true)

	f.addDonation(t, donor.ID, ngo.ID, "clothes", 2, models.StatusPending)
	f.addDonation(t, donor.ID, ngo.ID, "clothes", 1, models.StatusPending)
	f.addDonation(t, donor.ID, ngo.ID, "", 7, models.StatusPending)

	got, err := f.reports.ByType(ctx)
	if err != nil {
		t.Fatalf("ByType: %v", err)
	}

	if got["clothes"] != (reports.TypeStats{Count: 2, Items: 3}) {
		t.Errorf(`clothes = %+v, want {Count:2 Items:3}`, got["clothes"])
	}
	if got["other"] != (reports.TypeStats{Count: 1, Items: 7}) {
		t.Errorf(`other = %+v, want {Count:1 Items:7}`, got["other"])
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestTopNgos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	donor := f.addDonor(t, "aarav")
	quiet := f.addNgo(t, "quiet", true)
	busy := f.addNgo(t, "busy", true)
	unverified := f.addNgo(t, "shadow", false)

	f.addDonation(t, donor.ID, busy.ID, "clothes", 2, models.StatusPending)
	f.addDonation(t, donor.ID, busy.ID, "food", 5, models.StatusDelivered)
	f.addDonation(t, donor.ID, quiet.ID, "books", 1, models.StatusPending)
	// Donations to an unverified NGO never surface in the ranking.
	f.addDonation(t, donor.ID, unverified.ID, "toys", 9, models.StatusPending)

	got, err := f.reports.TopNgos(ctx, 5)
	if err != nil {
		t.Fatalf("TopNgos: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "busy" || got[0].DonationCount != 2 || got[0].TotalItems != 7 {
		t.Errorf("first = %s count=%d items=%d, want busy/2/7",
			got[0].Name, got[0].DonationCount, got[0].TotalItems)
	}
	if got[1].Name != "quiet" || got[1].DonationCount != 1 {
		t.Errorf("second = %s count=%d, want quiet/1", got[1].Name, got[1].DonationCount)
	}
}

func TestTopNgosLimitAndStableTies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	donor := f.addDonor(t, "aarav")
	first := f.addNgo(t, "alpha", true)
	second := f.addNgo(t, "beta", true)
	third := f.addNgo(t, "gamma", true)

	// Everyone ties on one donation; listing order must hold.
	f.addDonation(t, donor.ID, first.ID, "clothes", 1, models.StatusPending)
	f.addDonation(t, donor.ID, second.ID, "clothes", 1, models.StatusPending)
	f.addDonation(t, donor.ID, third.ID, "clothes", 1, models.StatusPending)

	got, err := f.reports.TopNgos(ctx, 2)
	if err != nil {
		t.Fatalf("TopNgos: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "alpha" || got[1].Name != "beta" {
		t.Errorf("order = %s,%s; want alpha,beta", got[0].Name, got[1].Name)
	}
}

func TestTopNgosDefaultLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		f.addNgo(t, name, true)
	}

	got, err := f.reports.TopNgos(ctx, 0)
	if err != nil {
		t.Fatalf("TopNgos: %v", err)
	}
	if len(got) != reports.DefaultTopNgoLimit {
		t.Errorf("len = %d, want %d", len(got), reports.DefaultTopNgoLimit)
	}
}
