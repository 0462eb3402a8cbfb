// Package donationpolicy provides authorization policies for donation
// access.
//
// Authorization rules:
//   - Admins can view every donation
//   - Donors can view only donations they submitted
//   - NGOs can view only donations addressed to them
//   - Only donors submit donation requests
package donationpolicy

import (
	"net/http"

	"github.com/openreuse/donatehub/internal/app/system/authz"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Action names the lifecycle operations a user may take on a donation.
// These drive the action buttons on the dashboards.
type Action string

const (
	ActionCancel  Action = "cancel"
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionPickup  Action = "pickup"
	ActionDeliver Action = "deliver"
)

// CanView reports whether the current request's user may see the
// donation.
func CanView(r *http.Request, d *models.Donation) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleDonor:
		return d.DonorID == uid
	case models.RoleNgo:
		return d.NgoID == uid
	}
	return false
}

// CanSubmit reports whether the current request's user may submit a new
// donation request.
func CanSubmit(r *http.Request) bool {
	return authz.IsDonor(r)
}

// AllowedActions returns the lifecycle actions u may take on d right
// now, in display order. It mirrors the transition rules the lifecycle
// controller enforces; the controller remains authoritative.
func AllowedActions(u *models.User, d *models.Donation) []Action {
	if u == nil {
		return nil
	}

	if u.Role == models.RoleDonor && d.DonorID == u.ID {
		if d.Status == models.StatusPending {
			return []Action{ActionCancel}
		}
		return nil
	}

	if u.Role == models.RoleNgo && d.NgoID == u.ID && u.Verified {
		switch d.Status {
		case models.StatusPending:
			return []Action{ActionAccept, ActionReject}
		case models.StatusAccepted:
			return []Action{ActionPickup, ActionReject}
		case models.StatusPickedUp:
			return []Action{ActionDeliver}
		}
	}

	return nil
}
