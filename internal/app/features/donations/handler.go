// Package donations serves the donor and NGO donation surfaces.
//
// The donor surface covers submitting, listing, and cancelling the
// donor's own requests. The NGO surface covers triaging the requests
// addressed to the signed-in NGO. All status changes go through the
// lifecycle controller.
package donations

import (
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/lifecycle"
	"github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/metrics"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// DonorHandler serves the donor-facing endpoints.
type DonorHandler struct {
	Donations *donationstore.Store
	Users     *userstore.Store
	Lifecycle *lifecycle.Controller
	Audit     *audit.Store
	Metrics   metrics.Recorder
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

// NewDonorHandler constructs the donor-facing handler.
func NewDonorHandler(donations *donationstore.Store, users *userstore.Store, ctl *lifecycle.Controller, trail *audit.Store, rec metrics.Recorder, errLog *uierrors.ErrorLogger, logger *zap.Logger) *DonorHandler {
	return &DonorHandler{
		Donations: donations,
		Users:     users,
		Lifecycle: ctl,
		Audit:     trail,
		Metrics:   rec,
		ErrLog:    errLog,
		Log:       logger,
	}
}

// NgoHandler serves the NGO-facing endpoints.
type NgoHandler struct {
	Donations *donationstore.Store
	Lifecycle *lifecycle.Controller
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

// NewNgoHandler constructs the NGO-facing handler.
func NewNgoHandler(donations *donationstore.Store, ctl *lifecycle.Controller, errLog *uierrors.ErrorLogger, logger *zap.Logger) *NgoHandler {
	return &NgoHandler{Donations: donations, Lifecycle: ctl, ErrLog: errLog, Log: logger}
}

// currentUser pulls the signed-in user out of the request context. The
// route middleware guarantees presence; the second return guards the
// direct-call paths in tests.
func currentUser(r *http.Request) (*models.User, bool) {
	return auth.CurrentUser(r)
}

// statusFilter parses an optional ?status= query value.
func statusFilter(r *http.Request) (models.DonationStatus, bool, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", false, nil
	}
	status := models.DonationStatus(raw)
	if !status.Valid() {
		return "", false, errUnknownStatus
	}
	return status, true, nil
}
