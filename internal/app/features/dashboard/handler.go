// Package dashboard serves the signed-in landing payload. Each role
// gets its own shape: donors see their request counts, NGOs see their
// triage queue, admins see platform totals and recent activity.
package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/store/reports"
	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// recentActivityLimit caps the audit slice on the admin dashboard.
const recentActivityLimit = 10

// Handler serves the role-specific dashboard.
type Handler struct {
	Donations *donationstore.Store
	Reports   *reports.Service
	Audit     *audit.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

// NewHandler constructs the dashboard handler.
func NewHandler(donations *donationstore.Store, svc *reports.Service, trail *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Donations: donations, Reports: svc, Audit: trail, ErrLog: errLog, Log: logger}
}

// statusCounts is the per-status rollup shared by the donor and NGO
// dashboards.
type statusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	PickedUp  int `json:"pickedUp"`
	Delivered int `json:"delivered"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

func countByStatus(list []models.Donation) statusCounts {
	var c statusCounts
	c.Total = len(list)
	for i := range list {
		switch list[i].Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusAccepted:
			c.Accepted++
		case models.StatusPickedUp:
			c.PickedUp++
		case models.StatusDelivered:
			c.Delivered++
		case models.StatusRejected:
			c.Rejected++
		case models.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

type donorDashboard struct {
	Role      string            `json:"role"`
	User      shared.UserView   `json:"user"`
	Donations statusCounts      `json:"donations"`
	Recent    []models.Donation `json:"recent"`
	// Activity is the donor's own audit trail, newest first.
	Activity []audit.Event `json:"activity"`
}

type ngoDashboard struct {
	Role     string          `json:"role"`
	User     shared.UserView `json:"user"`
	Incoming statusCounts    `json:"incoming"`
	// ActionNeeded counts requests waiting on the NGO: pending
	// triage plus accepted pickups.
	ActionNeeded int `json:"actionNeeded"`
}

type adminDashboard struct {
	Role           string        `json:"role"`
	Stats          reports.Stats `json:"stats"`
	RecentActivity []audit.Event `json:"recentActivity"`
	// PendingQueue lists donations still waiting on NGO triage.
	PendingQueue []models.Donation `json:"pendingQueue"`
}

// recentDonations returns at most n donations, newest first by id.
func recentDonations(list []models.Donation, n int) []models.Donation {
	out := make([]models.Donation, len(list))
	copy(out, list)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// HandleDashboard handles GET /dashboard.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "dashboard without session", nil, "Please sign in.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard")
	defer cancel()

	switch u.Role {
	case models.RoleDonor:
		list, err := h.Donations.ByDonor(ctx, u.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "donor dashboard failed", err, "Unable to load the dashboard.")
			return
		}
		activity, err := h.Audit.ByActor(ctx, u.ID, recentActivityLimit)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "donor dashboard failed", err, "Unable to load the dashboard.")
			return
		}
		shared.OK(w, donorDashboard{
			Role:      string(u.Role),
			User:      shared.NewUserView(u),
			Donations: countByStatus(list),
			Recent:    recentDonations(list, 5),
			Activity:  activity,
		})

	case models.RoleNgo:
		list, err := h.Donations.ByNgo(ctx, u.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "ngo dashboard failed", err, "Unable to load the dashboard.")
			return
		}
		counts := countByStatus(list)
		shared.OK(w, ngoDashboard{
			Role:         string(u.Role),
			User:         shared.NewUserView(u),
			Incoming:     counts,
			ActionNeeded: counts.Pending + counts.Accepted,
		})

	case models.RoleAdmin:
		stats, err := h.Reports.Stats(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "admin dashboard failed", err, "Unable to load the dashboard.")
			return
		}
		events, err := h.Audit.Recent(ctx, recentActivityLimit)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "admin dashboard failed", err, "Unable to load the dashboard.")
			return
		}
		pending, err := h.Donations.ByStatus(ctx, models.StatusPending)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "admin dashboard failed", err, "Unable to load the dashboard.")
			return
		}
		shared.OK(w, adminDashboard{
			Role:           string(u.Role),
			Stats:          stats,
			RecentActivity: events,
			PendingQueue:   pending,
		})

	default:
		h.ErrLog.LogForbidden(w, r, "dashboard for unknown role", nil, "No dashboard for this account.")
	}
}
