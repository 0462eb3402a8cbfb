// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down storage connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
		return nil
	}
	if deps.RedisClient != nil {
		logger.Info("closing Redis client")
		if err := deps.RedisClient.Close(); err != nil {
			logger.Error("Redis close failed", zap.Error(err))
			return err
		}
		return nil
	}
	if deps.KV != nil {
		return deps.KV.Close(ctx)
	}
	return nil
}
