// internal/app/features/donations/routes.go
package donations

import (
	"github.com/go-chi/chi/v5"

	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/authz"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// DonorRoutes mounts the donor surface (typically under "/donor/donations").
func DonorRoutes(h *DonorHandler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(authz.RequireRole(models.RoleDonor))

		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleSubmit)
		pr.Get("/{id}", h.HandleGet)
		pr.Post("/{id}/cancel", h.HandleCancel)
	})

	return r
}

// NgoRoutes mounts the NGO surface (typically under "/ngo").
func NgoRoutes(h *NgoHandler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(authz.RequireRole(models.RoleNgo))

		pr.Get("/requests", h.HandleList)
		pr.Get("/requests/{id}", h.HandleGet)
		pr.Post("/requests/{id}/accept", h.Accept)
		pr.Post("/requests/{id}/reject", h.Reject)
		pr.Post("/requests/{id}/pickup", h.MarkPickedUp)
		pr.Post("/requests/{id}/deliver", h.MarkDelivered)
		pr.Get("/summary", h.HandleSummary)
	})

	return r
}
