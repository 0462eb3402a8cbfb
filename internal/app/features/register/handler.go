// internal/app/features/register/handler.go
package register

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/system/htmlsanitize"
	"github.com/openreuse/donatehub/internal/app/system/identity"
	"github.com/openreuse/donatehub/internal/app/system/normalize"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Handler serves account registration.
type Handler struct {
	Identity *identity.Service
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a register Handler.
func NewHandler(svc *identity.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Identity: svc, ErrLog: errLog, Log: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	OrganizationName    string `json:"organizationName"`
	OrganizationAddress string `json:"organizationAddress"`
	OrganizationPhone   string `json:"organizationPhone"`
}

// HandleRegister handles POST /register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode register body failed", err, "Invalid request body.")
		return
	}

	role := models.Role(normalize.Role(req.Role))
	if role == models.RoleAdmin {
		// Admin accounts exist only through seeding.
		h.ErrLog.LogForbidden(w, r, "register as admin refused", nil, "Admin accounts cannot be self-registered.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register")
	defer cancel()

	u, err := h.Identity.Register(ctx, identity.Registration{
		Name:     htmlsanitize.Strip(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Role:     role,

		OrganizationName:    htmlsanitize.Strip(req.OrganizationName),
		OrganizationAddress: htmlsanitize.Strip(req.OrganizationAddress),
		OrganizationPhone:   htmlsanitize.Strip(req.OrganizationPhone),
	})
	switch {
	case goerrors.Is(err, identity.ErrEmailTaken):
		h.ErrLog.LogConflict(w, r, "register: email taken", err, "An account with this email already exists.")
		return
	case goerrors.Is(err, identity.ErrWeakPassword):
		h.ErrLog.LogUnprocessable(w, r, "register: weak password", err, "Password must be at least 6 characters.")
		return
	case goerrors.Is(err, identity.ErrValidation):
		h.ErrLog.LogUnprocessable(w, r, "register: incomplete", err, "Please fill in all required fields.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "register failed", err, "Unable to create the account.")
		return
	}

	shared.Created(w, shared.NewUserView(u))
}
