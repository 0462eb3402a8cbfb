// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to DonateHub lives.
type AppConfig struct {
	// Storage backend selection: "memory", "file", "mongo", or
	// "redis". The memory backend is for development and tests only;
	// its contents vanish on restart.
	StorageType string

	// File backend configuration
	StorageFileDir string // directory holding one file per collection key

	// MongoDB backend configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // database name within MongoDB

	// Redis backend configuration
	RedisAddr   string // host:port of the Redis server
	RedisDB     int    // Redis logical database number
	RedisPrefix string // key prefix, so several apps can share one Redis

	// Session management configuration
	SessionKey    string // secret key for signing session cookies (must be strong in production)
	SessionDomain string // cookie domain (blank means current host)

	// SeedDemoData seeds the demo accounts on startup when the
	// backend is empty.
	SeedDemoData bool

	// Handler timeout overrides; zero keeps the defaults.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
