// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/identity"
	"github.com/openreuse/donatehub/internal/app/system/normalize"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Handler serves sign-in and sign-out.
type Handler struct {
	Identity *identity.Service
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(svc *identity.Service, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Identity: svc, Sessions: sm, ErrLog: errLog, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login body failed", err, "Invalid request body.")
		return
	}

	role := models.Role(normalize.Role(req.Role))
	if !role.Valid() {
		h.ErrLog.LogBadRequest(w, r, "login with unknown role", nil, "Select a valid role.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Identity.Login(ctx, req.Email, req.Password, role)
	switch {
	case goerrors.Is(err, identity.ErrUserNotFound):
		h.ErrLog.LogUnauthorized(w, r, "login: user not found", err, "No account found with this email.")
		return
	case goerrors.Is(err, identity.ErrInvalidPassword):
		h.ErrLog.LogUnauthorized(w, r, "login: wrong password", err, "Invalid password.")
		return
	case goerrors.Is(err, identity.ErrRoleMismatch):
		h.ErrLog.LogUnauthorized(w, r, "login: role mismatch", err, "This account is registered under a different role.")
		return
	case goerrors.Is(err, identity.ErrNotVerified):
		h.ErrLog.LogForbidden(w, r, "login: ngo not verified", err, "Your NGO account is pending admin verification.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "login failed", err, "Unable to sign in.")
		return
	}

	if err := h.Sessions.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "write session failed", err, "Unable to sign in.")
		return
	}

	shared.OK(w, shared.NewUserView(u))
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "clear session failed", err, "Unable to sign out.")
		return
	}
	shared.Message(w, "Signed out.")
}
