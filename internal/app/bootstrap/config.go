// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for DonateHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: storage_type, session_key, etc.
//   - Environment variables: DONATEHUB_STORAGE_TYPE, DONATEHUB_SESSION_KEY, etc.
//   - Command-line flags: --storage_type, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_type", Default: "memory", Desc: "Storage backend: 'memory', 'file', 'mongo', or 'redis'"},
	{Name: "storage_file_dir", Default: "./data", Desc: "Directory for the file storage backend"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "donatehub", Desc: "MongoDB database name (mongo backend)"},

	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis server address (redis backend)"},
	{Name: "redis_db", Default: 0, Desc: "Redis logical database number (redis backend)"},
	{Name: "redis_prefix", Default: "donatehub:", Desc: "Redis key prefix (redis backend)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "seed_demo_data", Default: true, Desc: "Seed demo accounts when the backend is empty"},

	{Name: "timeout_ping", Default: "2s", Desc: "Timeout for storage health probes"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-record reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for collection scans and writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for reports and resets"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DONATEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DONATEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageType:    appValues.String("storage_type"),
		StorageFileDir: appValues.String("storage_file_dir"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		RedisAddr:   appValues.String("redis_addr"),
		RedisDB:     appValues.Int("redis_db"),
		RedisPrefix: appValues.String("redis_prefix"),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),

		SeedDemoData: appValues.Bool("seed_demo_data"),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The storage backend name and, for the mongo backend, the URI format
// are checked here so misconfiguration fails before connecting.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageType {
	case "memory", "file", "redis":
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo backend requires mongo_database")
		}
	default:
		return fmt.Errorf("unknown storage_type %q (want memory, file, mongo, or redis)", appCfg.StorageType)
	}

	if appCfg.StorageType == "file" && appCfg.StorageFileDir == "" {
		return fmt.Errorf("file backend requires storage_file_dir")
	}
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must not be empty")
	}

	return nil
}
