// internal/app/features/donations/donor.go
package donations

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/lifecycle"
	"github.com/openreuse/donatehub/internal/app/policy/donationpolicy"
	"github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/htmlsanitize"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

type submitRequest struct {
	NgoID         int    `json:"ngoId"`
	ItemType      string `json:"itemType"`
	ItemName      string `json:"itemName"`
	Quantity      int    `json:"quantity"`
	Description   string `json:"description"`
	PickupAddress string `json:"pickupAddress"`
	PickupDate    string `json:"pickupDate"`
	PickupWindow  string `json:"pickupTime"`
	ContactPhone  string `json:"contactPhone"`
}

func (req *submitRequest) validate() string {
	switch {
	case req.NgoID <= 0:
		return "Select an NGO."
	case req.ItemType == "":
		return "Select an item type."
	case req.ItemName == "":
		return "Enter the item name."
	case req.Quantity < 1:
		return "Quantity must be at least 1."
	case req.PickupAddress == "":
		return "Enter a pickup address."
	case req.PickupDate == "":
		return "Choose a pickup date."
	case !models.PickupWindow(req.PickupWindow).Valid():
		return "Choose a pickup time slot."
	case req.ContactPhone == "":
		return "Enter a contact phone number."
	}
	return ""
}

// HandleSubmit handles POST /donor/donations.
func (h *DonorHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	donor, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "submit without session", nil, "Please sign in.")
		return
	}
	if !donationpolicy.CanSubmit(r) {
		h.ErrLog.LogForbidden(w, r, "submit by non-donor", nil, "Only donors can submit donation requests.")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode donation body failed", err, "Invalid request body.")
		return
	}
	req.ItemName = htmlsanitize.Strip(req.ItemName)
	// Descriptions are free text and may carry basic formatting.
	req.Description = htmlsanitize.Sanitize(req.Description)
	req.PickupAddress = htmlsanitize.Strip(req.PickupAddress)

	if msg := req.validate(); msg != "" {
		h.ErrLog.LogUnprocessable(w, r, "donation validation failed", nil, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "submit donation")
	defer cancel()

	ngo, err := h.Users.Get(ctx, req.NgoID)
	if goerrors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.LogUnprocessable(w, r, "donation to unknown ngo", err, "The selected NGO does not exist.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load ngo failed", err, "Unable to submit the donation.")
		return
	}
	if ngo.Role != models.RoleNgo || !ngo.Verified {
		h.ErrLog.LogUnprocessable(w, r, "donation to non-verified ngo", nil, "Donations can only go to verified NGOs.")
		return
	}

	d, err := h.Donations.Create(ctx, models.Donation{
		DonorID:       donor.ID,
		DonorName:     donor.Name,
		DonorEmail:    donor.Email,
		NgoID:         ngo.ID,
		NgoName:       ngo.DisplayName(),
		ItemType:      req.ItemType,
		ItemName:      req.ItemName,
		Quantity:      req.Quantity,
		Description:   req.Description,
		PickupAddress: req.PickupAddress,
		PickupDate:    req.PickupDate,
		PickupWindow:  models.PickupWindow(req.PickupWindow),
		ContactPhone:  req.ContactPhone,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create donation failed", err, "Unable to submit the donation.")
		return
	}

	h.Metrics.RecordDonationSubmitted(d.ItemType)
	if auditErr := h.Audit.Log(ctx, audit.Event{
		Category:  audit.CategoryDonation,
		EventType: audit.EventDonationSubmitted,
		ActorID:   donor.ID,
		SubjectID: d.ID,
		Success:   true,
		Details:   map[string]string{"itemType": d.ItemType, "ngo": d.NgoName},
	}); auditErr != nil {
		h.Log.Warn("audit write failed", zap.Error(auditErr))
	}

	shared.Created(w, newDonationView(&d, donor))
}

// HandleList handles GET /donor/donations with an optional ?status=
// filter.
func (h *DonorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	donor, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "list without session", nil, "Please sign in.")
		return
	}

	status, filtered, err := statusFilter(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad status filter", err, "Unknown status filter.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list donor donations")
	defer cancel()

	list, err := h.Donations.ByDonor(ctx, donor.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list donations failed", err, "Unable to load donations.")
		return
	}
	if filtered {
		kept := list[:0]
		for _, d := range list {
			if d.Status == status {
				kept = append(kept, d)
			}
		}
		list = kept
	}

	shared.OK(w, newDonationViews(list, donor))
}

// HandleGet handles GET /donor/donations/{id}.
func (h *DonorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	donor, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "get without session", nil, "Please sign in.")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad donation id", err, "Invalid donation id.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get donation")
	defer cancel()

	d, err := h.Donations.Get(ctx, id)
	if goerrors.Is(err, donationstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "donation not found", err, "Donation not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load donation failed", err, "Unable to load the donation.")
		return
	}
	if !donationpolicy.CanView(r, d) {
		h.ErrLog.LogForbidden(w, r, "donation view denied", nil, "You cannot view this donation.")
		return
	}

	shared.OK(w, newDonationView(d, donor))
}

// HandleCancel handles POST /donor/donations/{id}/cancel.
func (h *DonorHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	donor, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "cancel without session", nil, "Please sign in.")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad donation id", err, "Invalid donation id.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cancel donation")
	defer cancel()

	d, err := h.Lifecycle.Cancel(ctx, donor.ID, id)
	switch {
	case goerrors.Is(err, donationstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "cancel: donation not found", err, "Donation not found.")
		return
	case goerrors.Is(err, lifecycle.ErrNotDonationOwner):
		h.ErrLog.LogForbidden(w, r, "cancel: not owner", err, "You can only cancel your own donations.")
		return
	case goerrors.Is(err, lifecycle.ErrInvalidTransition):
		h.ErrLog.LogConflict(w, r, "cancel: not pending", err, "Only pending donations can be cancelled.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "cancel donation failed", err, "Unable to cancel the donation.")
		return
	}

	shared.OK(w, newDonationView(d, donor))
}
