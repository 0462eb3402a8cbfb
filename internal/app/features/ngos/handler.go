// Package ngos serves the NGO directory and the admin verification
// queue.
//
// The directory lists verified organizations so donors can pick a
// recipient. The admin surface verifies new NGO applications, revokes
// verification, and rejects applications outright.
package ngos

import (
	"context"
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/store/audit"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Handler serves the NGO directory and admin verification endpoints.
type Handler struct {
	Users  *userstore.Store
	Audit  *audit.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the NGO handler.
func NewHandler(users *userstore.Store, trail *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Audit: trail, ErrLog: errLog, Log: logger}
}

// directoryView is the donor-facing shape of a verified NGO. It keeps
// account details like the login email out of the directory.
type directoryView struct {
	ID                  int    `json:"id"`
	OrganizationName    string `json:"organizationName"`
	OrganizationAddress string `json:"organizationAddress"`
	OrganizationPhone   string `json:"organizationPhone"`
}

// HandleDirectory handles GET /ngos. Any signed-in user may browse the
// verified organizations.
func (h *Handler) HandleDirectory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "ngo directory")
	defer cancel()

	list, err := h.Users.VerifiedNgos(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load ngo directory failed", err, "Unable to load the NGO list.")
		return
	}

	views := make([]directoryView, 0, len(list))
	for i := range list {
		views = append(views, directoryView{
			ID:                  list[i].ID,
			OrganizationName:    list[i].OrganizationName,
			OrganizationAddress: list[i].OrganizationAddress,
			OrganizationPhone:   list[i].OrganizationPhone,
		})
	}
	shared.OK(w, views)
}

// HandleAdminList handles GET /admin/ngos with an optional
// ?verification=all|verified|pending filter.
func (h *Handler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin ngo list")
	defer cancel()

	var (
		list []models.User
		err  error
	)
	switch filter := r.URL.Query().Get("verification"); filter {
	case "", "all":
		list, err = h.Users.Ngos(ctx)
	case "verified":
		list, err = h.Users.VerifiedNgos(ctx)
	case "pending":
		list, err = h.Users.PendingNgos(ctx)
	default:
		h.ErrLog.LogBadRequest(w, r, "bad verification filter", nil, "Unknown verification filter.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load ngos failed", err, "Unable to load NGOs.")
		return
	}

	views := make([]shared.UserView, 0, len(list))
	for i := range list {
		views = append(views, shared.NewUserView(&list[i]))
	}
	shared.OK(w, views)
}

// loadNgo fetches the NGO named in the {id} URL param. A non-NGO
// account is reported as not found so admin actions cannot touch donor
// or admin accounts.
func (h *Handler) loadNgo(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad ngo id", err, "Invalid NGO id.")
		return nil, false
	}

	u, err := h.Users.Get(r.Context(), id)
	if goerrors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "ngo not found", err, "NGO not found.")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load ngo failed", err, "Unable to load the NGO.")
		return nil, false
	}
	if u.Role != models.RoleNgo {
		h.ErrLog.LogNotFound(w, r, "target is not an ngo", nil, "NGO not found.")
		return nil, false
	}
	return u, true
}

func (h *Handler) setVerified(w http.ResponseWriter, r *http.Request, verified bool, eventType string) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, eventType)
	defer cancel()
	r = r.WithContext(ctx)

	ngo, ok := h.loadNgo(w, r)
	if !ok {
		return
	}

	updated, err := h.Users.UpdateUser(ctx, ngo.ID, userstore.Update{Verified: &verified})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update ngo failed", err, "Unable to update the NGO.")
		return
	}

	h.logAdminEvent(ctx, r, eventType, updated.ID, map[string]string{
		"organization": updated.OrganizationName,
		"email":        updated.Email,
	})
	h.Log.Info("ngo verification changed",
		zap.Int("ngo_id", updated.ID),
		zap.Bool("verified", verified))

	shared.OK(w, shared.NewUserView(updated))
}

// HandleVerify handles POST /admin/ngos/{id}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.setVerified(w, r, true, audit.EventNgoVerified)
}

// HandleRevoke handles POST /admin/ngos/{id}/revoke.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	h.setVerified(w, r, false, audit.EventNgoVerificationRevoked)
}

// HandleReject handles POST /admin/ngos/{id}/reject. Rejection removes
// the application entirely; the organization may register again later.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reject ngo application")
	defer cancel()
	r = r.WithContext(ctx)

	ngo, ok := h.loadNgo(w, r)
	if !ok {
		return
	}
	if ngo.Verified {
		h.ErrLog.LogConflict(w, r, "reject of verified ngo", nil, "Verified NGOs cannot be rejected. Revoke verification first.")
		return
	}

	if err := h.Users.Delete(ctx, ngo.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete ngo failed", err, "Unable to reject the application.")
		return
	}

	h.logAdminEvent(ctx, r, audit.EventNgoApplicationRejected, ngo.ID, map[string]string{
		"organization": ngo.OrganizationName,
		"email":        ngo.Email,
	})
	h.Log.Info("ngo application rejected", zap.Int("ngo_id", ngo.ID))

	shared.Message(w, "NGO application rejected.")
}

func (h *Handler) logAdminEvent(ctx context.Context, r *http.Request, eventType string, subjectID int, details map[string]string) {
	var actorID int
	if admin, ok := auth.CurrentUser(r); ok {
		actorID = admin.ID
	}
	if err := h.Audit.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		SubjectID: subjectID,
		Success:   true,
		Details:   details,
	}); err != nil {
		h.Log.Warn("audit write failed", zap.Error(err))
	}
}
