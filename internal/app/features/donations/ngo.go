// internal/app/features/donations/ngo.go
package donations

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/lifecycle"
	"github.com/openreuse/donatehub/internal/app/policy/donationpolicy"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/system/htmlsanitize"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// HandleList handles GET /ngo/requests with an optional ?status= filter.
func (h *NgoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ngo, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "list without session", nil, "Please sign in.")
		return
	}

	status, filtered, err := statusFilter(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad status filter", err, "Unknown status filter.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list ngo requests")
	defer cancel()

	list, err := h.Donations.ByNgo(ctx, ngo.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list requests failed", err, "Unable to load requests.")
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

	shared.OK(w, newDonationViews(list, ngo))
}

// HandleGet handles GET /ngo/requests/{id}.
func (h *NgoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ngo, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "get without session", nil, "Please sign in.")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad donation id", err, "Invalid donation id.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get ngo request")
	defer cancel()

	d, err := h.Donations.Get(ctx, id)
	if goerrors.Is(err, donationstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "request not found", err, "Donation not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load request failed", err, "Unable to load the donation.")
		return
	}
	if !donationpolicy.CanView(r, d) {
		h.ErrLog.LogForbidden(w, r, "request view denied", nil, "This donation is addressed to a different NGO.")
		return
	}

	shared.OK(w, newDonationView(d, ngo))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// transitionFunc applies one lifecycle action for the signed-in NGO.
type transitionFunc func(r *http.Request, ngoID, donationID int) (*models.Donation, error)

func (h *NgoHandler) runTransition(w http.ResponseWriter, r *http.Request, operation string, fn transitionFunc) {
	ngo, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, operation+" without session", nil, "Please sign in.")
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad donation id", err, "Invalid donation id.")
		return
	}

	d, err := fn(r, ngo.ID, id)
	switch {
	case goerrors.Is(err, donationstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, operation+": donation not found", err, "Donation not found.")
		return
	case goerrors.Is(err, lifecycle.ErrNotAssignedNgo):
		h.ErrLog.LogForbidden(w, r, operation+": wrong ngo", err, "This donation is addressed to a different NGO.")
		return
	case goerrors.Is(err, lifecycle.ErrInvalidTransition):
		h.ErrLog.LogConflict(w, r, operation+": invalid transition", err, "The donation's current status does not allow this action.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, operation+" failed", err, "Unable to update the donation.")
		return
	}

	shared.OK(w, newDonationView(d, ngo))
}

// Accept handles POST /ngo/requests/{id}/accept.
func (h *NgoHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "accept", func(r *http.Request, ngoID, id int) (*models.Donation, error) {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "accept donation")
		defer cancel()
		return h.Lifecycle.Accept(ctx, ngoID, id)
	})
}

// Reject handles POST /ngo/requests/{id}/reject. The body may carry an
// optional {"reason": "..."}.
func (h *NgoHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	// A missing or empty body means "no reason given".
	_ = json.NewDecoder(r.Body).Decode(&req)
	reason := htmlsanitize.Strip(req.Reason)

	h.runTransition(w, r, "reject", func(r *http.Request, ngoID, id int) (*models.Donation, error) {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reject donation")
		defer cancel()
		return h.Lifecycle.Reject(ctx, ngoID, id, reason)
	})
}

// MarkPickedUp handles POST /ngo/requests/{id}/pickup.
func (h *NgoHandler) MarkPickedUp(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "pickup", func(r *http.Request, ngoID, id int) (*models.Donation, error) {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mark picked up")
		defer cancel()
		return h.Lifecycle.MarkPickedUp(ctx, ngoID, id)
	})
}

// MarkDelivered handles POST /ngo/requests/{id}/deliver.
func (h *NgoHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, "deliver", func(r *http.Request, ngoID, id int) (*models.Donation, error) {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mark delivered")
		defer cancel()
		return h.Lifecycle.MarkDelivered(ctx, ngoID, id)
	})
}

// ngoSummary is the per-NGO rollup for the NGO dashboard.
type ngoSummary struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Accepted       int `json:"accepted"`
	PickedUp       int `json:"pickedUp"`
	Delivered      int `json:"delivered"`
	Rejected       int `json:"rejected"`
	Cancelled      int `json:"cancelled"`
	ItemsDelivered int `json:"itemsDelivered"`
}

// HandleSummary handles GET /ngo/summary.
func (h *NgoHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ngo, ok := currentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "summary without session", nil, "Please sign in.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ngo summary")
	defer cancel()

	list, err := h.Donations.ByNgo(ctx, ngo.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "summary failed", err, "Unable to load the summary.")
		return
	}

	var s ngoSummary
	s.Total = len(list)
	for i := range list {
		switch list[i].Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusAccepted:
			s.Accepted++
		case models.StatusPickedUp:
			s.PickedUp++
		case models.StatusDelivered:
			s.Delivered++
			s.ItemsDelivered += list[i].Quantity
		case models.StatusRejected:
			s.Rejected++
		case models.StatusCancelled:
			s.Cancelled++
		}
	}

	shared.OK(w, s)
}
