// internal/app/features/ngos/routes.go
package ngos

import (
	"github.com/go-chi/chi/v5"

	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/authz"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// DirectoryRoutes mounts the verified-NGO directory (typically under
// "/ngos"). Any signed-in user may browse it.
func DirectoryRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.HandleDirectory)
	})

	return r
}

// AdminRoutes mounts the verification queue (typically under
// "/admin/ngos").
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(authz.RequireRole(models.RoleAdmin))

		pr.Get("/", h.HandleAdminList)
		pr.Post("/{id}/verify", h.HandleVerify)
		pr.Post("/{id}/revoke", h.HandleRevoke)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
