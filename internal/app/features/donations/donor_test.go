package donations_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/features/donations"
	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/lifecycle"
	auditstore "github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/domain/models"
	"github.com/openreuse/donatehub/internal/testutil"
)

type nopRecorder struct{}

func (nopRecorder) RecordLogin(string)             {}
func (nopRecorder) RecordDonationSubmitted(string) {}
func (nopRecorder) RecordTransition(_, _ string)   {}

// fixture bundles the handlers and seed accounts the donation tests
// share.
type fixture struct {
	donor *donations.DonorHandler
	ngo   *donations.NgoHandler

	fx        *testutil.Fixtures
	donorUser models.User
	ngoUser   models.User
	otherNgo  models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	fx := testutil.NewFixtures(t)
	ctx := context.Background()

	donorUser := fx.CreateDonor(ctx, "Priya Sharma", "priya@example.com")
	ngoUser := fx.CreateNgo(ctx, "Helping Hands", "hands@example.com", true)
	otherNgo := fx.CreateNgo(ctx, "Second Shelter", "shelter@example.com", true)

	trail := auditstore.New(fx.KV(), logger)
	ctl := lifecycle.New(fx.Donations(), trail, nopRecorder{}, logger)
	errLog := uierrors.NewErrorLogger(logger)

	return &fixture{
		donor:     donations.NewDonorHandler(fx.Donations(), fx.Users(), ctl, trail, nopRecorder{}, errLog, logger),
		ngo:       donations.NewNgoHandler(fx.Donations(), ctl, errLog, logger),
		fx:        fx,
		donorUser: donorUser,
		ngoUser:   ngoUser,
		otherNgo:  otherNgo,
	}
}

func (f *fixture) submitBody(ngoID int) string {
	return fmt.Sprintf(`{
		"ngoId": %d,
		"itemType": "clothes",
		"itemName": "Winter coats",
		"quantity": 4,
		"description": "Gently used",
		"pickupAddress": "45 Harbor Street",
		"pickupDate": "2026-09-15",
		"pickupTime": "morning",
		"contactPhone": "555-0101"
	}`, ngoID)
}

func doJSON(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

func TestSubmitDonation(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/donor/donations", strings.NewReader(f.submitBody(f.ngoUser.ID)))
	req = testutil.AsUser(req, &f.donorUser)

	rr := doJSON(f.donor.HandleSubmit, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID        int      `json:"id"`
			DonorName string   `json:"donorName"`
			NgoName   string   `json:"ngoName"`
			Status    string   `json:"status"`
			Actions   []string `json:"actions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.ID != 1 || body.Data.Status != "pending" {
		t.Errorf("data = %+v", body.Data)
	}
	if body.Data.DonorName != "Priya Sharma" {
		t.Errorf("donorName = %q", body.Data.DonorName)
	}
	if body.Data.NgoName != "Helping Hands Org" {
		t.Errorf("ngoName = %q, want organization name", body.Data.NgoName)
	}
	if len(body.Data.Actions) != 1 || body.Data.Actions[0] != "cancel" {
		t.Errorf("actions = %v, want [cancel]", body.Data.Actions)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)

	unverified := f.fx.CreateNgo(context.Background(), "Fresh Start", "fresh@example.com", false)

	cases := []struct {
		name string
		body string
		want int
		msg  string
	}{
		{"missing ngo", `{"itemType":"clothes","itemName":"Coats","quantity":1,"pickupAddress":"a","pickupDate":"2026-09-15","pickupTime":"morning","contactPhone":"1"}`,
			http.StatusUnprocessableEntity, "Select an NGO."},
		{"zero quantity", strings.Replace(f.submitBody(f.ngoUser.ID), `"quantity": 4`, `"quantity": 0`, 1),
			http.StatusUnprocessableEntity, "Quantity must be at least 1."},
		{"bad pickup window", strings.Replace(f.submitBody(f.ngoUser.ID), `"pickupTime": "morning"`, `"pickupTime": "midnight"`, 1),
			http.StatusUnprocessableEntity, "Choose a pickup time slot."},
		{"unknown ngo", f.submitBody(999),
			http.StatusUnprocessableEntity, "The selected NGO does not exist."},
		{"unverified ngo", f.submitBody(unverified.ID),
			http.StatusUnprocessableEntity, "Donations can only go to verified NGOs."},
		{"donor as target", f.submitBody(f.donorUser.ID),
			http.StatusUnprocessableEntity, "Donations can only go to verified NGOs."},
		{"not json", `quantity=4`, http.StatusBadRequest, "Invalid request body."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/donor/donations", strings.NewReader(tc.body))
			req = testutil.AsUser(req, &f.donorUser)

			rr := doJSON(f.donor.HandleSubmit, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tc.want, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.msg) {
				t.Errorf("body %s missing %q", rr.Body.String(), tc.msg)
			}
		})
	}
}

func TestSubmitStripsMarkup(t *testing.T) {
	f := newFixture(t)

	body := strings.Replace(f.submitBody(f.ngoUser.ID),
		`"itemName": "Winter coats"`,
		`"itemName": "<script>alert(1)</script>Coats"`, 1)
	body = strings.Replace(body,
		`"description": "Gently used"`,
		`"description": "<b>Gently</b> used<script>alert(2)</script>"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/donor/donations", strings.NewReader(body))
	req = testutil.AsUser(req, &f.donorUser)

	rr := doJSON(f.donor.HandleSubmit, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "<script>") {
		t.Errorf("markup survived: %s", rr.Body.String())
	}

	d, err := f.fx.Donations().Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.ItemName != "Coats" {
		t.Errorf("stored itemName = %q", d.ItemName)
	}
	// Descriptions keep basic formatting; scripts still go.
	if d.Description != "<b>Gently</b> used" {
		t.Errorf("stored description = %q", d.Description)
	}
}

func TestSubmitRequiresDonorRole(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/donor/donations", strings.NewReader(f.submitBody(f.otherNgo.ID)))
	req = testutil.AsUser(req, &f.ngoUser)

	rr := doJSON(f.donor.HandleSubmit, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	list, err := f.fx.Donations().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("donation created by non-donor: %d stored", len(list))
	}
}

func TestDonorListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fx.CreateDonation(ctx, f.donorUser, f.ngoUser, "clothes", 2)
	second := f.fx.CreateDonation(ctx, f.donorUser, f.ngoUser, "food", 3)
	if _, err := f.fx.Donations().UpdateDonation(ctx, second.ID, statusUpdate(models.StatusDelivered)); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Another donor's request must never show up.
	other := f.fx.CreateDonor(ctx, "Rohan Mehta", "rohan@example.com")
	f.fx.CreateDonation(ctx, other, f.ngoUser, "books", 1)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 2},
		{"pending only", "?status=pending", 1},
		{"delivered only", "?status=delivered", 1},
		{"none match", "?status=rejected", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/donor/donations"+tc.query, nil)
			req = testutil.AsUser(req, &f.donorUser)

			rr := httptest.NewRecorder()
			f.donor.HandleList(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
			}

			var body struct {
				Data []json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Data) != tc.want {
				t.Errorf("got %d donations, want %d", len(body.Data), tc.want)
			}
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/donor/donations?status=misplaced", nil)
		req = testutil.AsUser(req, &f.donorUser)

		rr := httptest.NewRecorder()
		f.donor.HandleList(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestDonorGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fx.CreateDonation(ctx, f.donorUser, f.ngoUser, "clothes", 2)
	other := f.fx.CreateDonor(ctx, "Rohan Mehta", "rohan@example.com")

	get := func(viewer *models.User, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/donor/donations/"+id, nil)
		req = testutil.AsUser(req, viewer)
		req = testutil.WithChiURLParam(req, "id", id)
		rr := httptest.NewRecorder()
		f.donor.HandleGet(rr, req)
		return rr
	}

	if rr := get(&f.donorUser, "1"); rr.Code != http.StatusOK {
		t.Errorf("owner get: status = %d, body %s", rr.Code, rr.Body.String())
	}
	if rr := get(&other, "1"); rr.Code != http.StatusForbidden {
		t.Errorf("stranger get: status = %d, want 403", rr.Code)
	}
	if rr := get(&f.donorUser, "99"); rr.Code != http.StatusNotFound {
		t.Errorf("missing get: status = %d, want 404", rr.Code)
	}
	if rr := get(&f.donorUser, "abc"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad id get: status = %d, want 400", rr.Code)
	}
}

func TestDonorCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.fx.CreateDonation(ctx, f.donorUser, f.ngoUser, "clothes", 2)
	other := f.fx.CreateDonor(ctx, "Rohan Mehta", "rohan@example.com")

	cancel := func(viewer *models.User, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/donor/donations/"+id+"/cancel", nil)
		req = testutil.AsUser(req, viewer)
		req = testutil.WithChiURLParam(req, "id", id)
		rr := httptest.NewRecorder()
		f.donor.HandleCancel(rr, req)
		return rr
	}

	if rr := cancel(&other, "1"); rr.Code != http.StatusForbidden {
		t.Errorf("stranger cancel: status = %d, want 403", rr.Code)
	}
	if rr := cancel(&f.donorUser, "99"); rr.Code != http.StatusNotFound {
		t.Errorf("missing cancel: status = %d, want 404", rr.Code)
	}

	rr := cancel(&f.donorUser, "1")
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, body %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"status":"cancelled"`) {
		t.Errorf("body = %s", rr.Body.String())
	}

	// A second cancel hits a terminal status.
	if rr := cancel(&f.donorUser, "1"); rr.Code != http.StatusConflict {
		t.Errorf("repeat cancel: status = %d, want 409", rr.Code)
	}
}

func statusUpdate(s models.DonationStatus) donationstore.Update {
	return donationstore.Update{Status: &s}
}
