// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openreuse/donatehub/internal/app/store/kv"
)

// ConnectDB builds the key-value backend selected by storage_type.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.StorageType {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		return DBDeps{KV: kv.NewMemoryStore()}, nil

	case "file":
		store, err := kv.NewFileStore(appCfg.StorageFileDir)
		if err != nil {
			return DBDeps{}, err
		}
		logger.Info("using file storage", zap.String("dir", appCfg.StorageFileDir))
		return DBDeps{KV: store}, nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return DBDeps{}, fmt.Errorf("ping mongodb: %w", err)
		}
		logger.Info("using mongodb storage", zap.String("database", appCfg.MongoDatabase))
		return DBDeps{
			KV:          kv.NewMongoStore(client, appCfg.MongoDatabase),
			MongoClient: client,
		}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: appCfg.RedisAddr,
			DB:   appCfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return DBDeps{}, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("using redis storage", zap.String("addr", appCfg.RedisAddr))
		return DBDeps{
			KV:          kv.NewRedisStore(client, appCfg.RedisPrefix),
			RedisClient: client,
		}, nil
	}

	return DBDeps{}, fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
}

// EnsureSchema verifies the backend is reachable. The key-value model
// has no schema to migrate; collections appear on first write.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.KV.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping: %w", err)
	}
	return nil
}
