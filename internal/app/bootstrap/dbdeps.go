// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openreuse/donatehub/internal/app/store/kv"
)

// DBDeps holds storage dependencies for the app.
//
// KV is always set and is what the stores read through. The client
// fields are only set when the corresponding backend is selected, so
// Shutdown can close them.
type DBDeps struct {
	KV kv.Store

	MongoClient *mongo.Client
	RedisClient *redis.Client
}
