// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"

	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/authz"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Routes mounts the reporting surface (typically under "/reports").
// Every endpoint is admin-only, the reset included.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(authz.RequireRole(models.RoleAdmin))

		pr.Get("/", h.HandleReport)
		pr.Get("/export.csv", h.HandleExportCSV)
		pr.Get("/export.json", h.HandleExportJSON)
		pr.Post("/reset", h.HandleReset)
	})

	return r
}
