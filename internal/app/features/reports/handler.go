// Package reports serves the admin reporting surface: platform
// statistics, item-type breakdowns, NGO rankings, exports, and the
// demo data reset.
package reports

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/openreuse/donatehub/internal/app/features/errors"
	"github.com/openreuse/donatehub/internal/app/features/shared"
	"github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/store/reports"
	"github.com/openreuse/donatehub/internal/app/store/seed"
	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/csvutil"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
	"github.com/openreuse/donatehub/internal/domain/models"
)

// Handler serves the admin reporting endpoints.
type Handler struct {
	Reports   *reports.Service
	Donations *donationstore.Store
	Seeder    *seed.Seeder
	Audit     *audit.Store
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

// NewHandler constructs the reports handler.
func NewHandler(svc *reports.Service, donations *donationstore.Store, seeder *seed.Seeder, trail *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Reports:   svc,
		Donations: donations,
		Seeder:    seeder,
		Audit:     trail,
		ErrLog:    errLog,
		Log:       logger,
	}
}

// reportPayload is the combined report body shared by the JSON view
// and the JSON export.
type reportPayload struct {
	GeneratedAt string                       `json:"generatedAt"`
	Stats       reports.Stats                `json:"stats"`
	ByType      map[string]reports.TypeStats `json:"byType"`
	TopNgos     []reports.NgoRanking         `json:"topNgos"`
}

func (h *Handler) buildReport(ctx context.Context) (reportPayload, error) {
	stats, err := h.Reports.Stats(ctx)
	if err != nil {
		return reportPayload{}, err
	}
	byType, err := h.Reports.ByType(ctx)
	if err != nil {
		return reportPayload{}, err
	}
	topNgos, err := h.Reports.TopNgos(ctx, reports.DefaultTopNgoLimit)
	if err != nil {
		return reportPayload{}, err
	}
	return reportPayload{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:       stats,
		ByType:      byType,
		TopNgos:     topNgos,
	}, nil
}

// HandleReport handles GET /reports.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "build report")
	defer cancel()

	payload, err := h.buildReport(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build report failed", err, "Unable to build the report.")
		return
	}
	shared.OK(w, payload)
}

// HandleExportJSON handles GET /reports/export.json. Unlike the live
// report view, the export also carries the full donation list.
func (h *Handler) HandleExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "export report json")
	defer cancel()

	payload, err := h.buildReport(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build report failed", err, "Unable to build the report.")
		return
	}
	donations, err := h.Donations.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list donations failed", err, "Unable to build the report.")
		return
	}

	export := struct {
		reportPayload
		Donations []models.Donation `json:"donations"`
	}{payload, donations}

	w.Header().Set("Content-Disposition", `attachment; filename="donatehub-report.json"`)
	shared.JSON(w, http.StatusOK, export)
}

// HandleExportCSV handles GET /reports/export.csv.
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "export report csv")
	defer cancel()

	payload, err := h.buildReport(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build report failed", err, "Unable to build the report.")
		return
	}
	donations, err := h.Donations.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list donations failed", err, "Unable to build the report.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="donatehub-report.csv"`)
	if err := csvutil.WriteReport(w, payload.Stats, payload.ByType, payload.TopNgos, donations); err != nil {
		// Headers are already out; log and give up on the body.
		h.Log.Error("write csv report failed", zap.Error(err))
	}
}

// HandleReset handles POST /reports/reset. The platform returns to the
// demo dataset; every live account and donation is discarded.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "reset demo data")
	defer cancel()

	if err := h.Seeder.Reset(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "demo reset failed", err, "Unable to reset the demo data.")
		return
	}

	var actorID int
	if admin, ok := auth.CurrentUser(r); ok {
		actorID = admin.ID
	}
	if err := h.Audit.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventDataReset,
		ActorID:   actorID,
		Success:   true,
	}); err != nil {
		h.Log.Warn("audit write failed", zap.Error(err))
	}

	shared.Message(w, "Demo data restored.")
}
