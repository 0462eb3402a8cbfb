// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	donationstore "github.com/openreuse/donatehub/internal/app/store/donations"
	"github.com/openreuse/donatehub/internal/app/store/seed"
	userstore "github.com/openreuse/donatehub/internal/app/store/users"
	"github.com/openreuse/donatehub/internal/app/system/timeouts"
)

// Startup runs one-time application initialization after the backend is
// connected but before the HTTP handler is built. It applies timeout
// overrides and seeds the demo dataset when the backend is empty.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.SeedDemoData {
		users := userstore.New(deps.KV)
		donations := donationstore.New(deps.KV)
		if err := seed.New(deps.KV, users, donations, logger).Ensure(ctx); err != nil {
			return err
		}
	}

	return nil
}
