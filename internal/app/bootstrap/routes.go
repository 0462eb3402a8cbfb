// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	dashboardfeature "github.com/openreuse/donatehub/internal/app/features/dashboard"
	donationsfeature "github.com/openreuse/donatehub/internal/app/features/donations"
	errorsfeature "github.com/openreuse/donatehub/internal/app/features/errors"
	healthfeature "github.com/openreuse/donatehub/internal/app/features/health"
	loginfeature "github.com/openreuse/donatehub/internal/app/features/login"
	ngosfeature "github.com/openreuse/donatehub/internal/app/features/ngos"
	registerfeature "github.com/openreuse/donatehub/internal/app/features/register"
	reportsfeature "github.com/openreuse/donatehub/internal/app/features/reports"
	"github.com/openreuse/donatehub/internal/app/lifecycle"
	"github.com/openreuse/donatehub/internal/app/store/audit"
	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	reportstore "github.com/openreuse/donatehub/internal/app/store/reports"
	"github.com/openreuse/donatehub/internal/app/store/seed"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/auth"
	"github.com/openreuse/donatehub/internal/app/system/identity"
	"github.com/openreuse/donatehub/internal/app/system/metrics"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, backend connection, and the
// Startup hook have completed. The stores, the lifecycle controller,
// and the feature handlers are all built here and wired onto a chi
// router: auth endpoints at the top level, then the donor, NGO, and
// admin surfaces.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Record stores over the shared key-value backend.
	users := userstore.New(deps.KV)
	donations := donationstore.New(deps.KV)
	trail := audit.New(deps.KV, logger)
	reportSvc := reportstore.New(users, donations)
	seeder := seed.New(deps.KV, users, donations, logger)

	// Metrics use a private registry so tests and multiple instances
	// never collide on the default one.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	identitySvc := identity.New(users, trail, collector, logger)
	controller := lifecycle.New(donations, trail, collector, logger)

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionDomain, secure, users, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Request metrics cover every route, including 404s.
	r.Use(collector.Middleware)

	// Global auth middleware: loads the session user into context so
	// handlers can use auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.KV, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler(registry))

	// Authentication
	loginHandler := loginfeature.NewHandler(identitySvc, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Post("/logout", loginHandler.HandleLogout)

	registerHandler := registerfeature.NewHandler(identitySvc, errLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Role-based dashboard
	dashboardHandler := dashboardfeature.NewHandler(donations, reportSvc, trail, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Donor surface
	donorHandler := donationsfeature.NewDonorHandler(donations, users, controller, trail, collector, errLog, logger)
	r.Mount("/donor/donations", donationsfeature.DonorRoutes(donorHandler, sessionMgr))

	// NGO surface
	ngoHandler := donationsfeature.NewNgoHandler(donations, controller, errLog, logger)
	r.Mount("/ngo", donationsfeature.NgoRoutes(ngoHandler, sessionMgr))

	// NGO directory and admin verification queue
	ngosHandler := ngosfeature.NewHandler(users, trail, errLog, logger)
	r.Mount("/ngos", ngosfeature.DirectoryRoutes(ngosHandler, sessionMgr))
	r.Mount("/admin/ngos", ngosfeature.AdminRoutes(ngosHandler, sessionMgr))

	// Admin reports and demo reset
	reportsHandler := reportsfeature.NewHandler(reportSvc, donations, seeder, trail, errLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	return r, nil
}
