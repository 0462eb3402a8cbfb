// Package kv defines the key-value storage abstraction the record stores
// persist through.
//
// The persistence model is deliberately simple: each collection is one
// JSON-encoded value under a fixed key, written back whole on every
// mutation. Backends only need Get/Set/Delete on opaque byte values, so
// the same record stores run unchanged against memory, a local directory,
// MongoDB, or Redis. Concurrent writers against a shared backend race
// last-writer-wins; that limitation is accepted, not handled.
package kv

import (
	"context"
	"errors"
)

// Well-known keys. Record stores own these; nothing else reads or writes
// them directly.
const (
	KeyUsers             = "users"
	KeyDonations         = "donations"
	KeyDonationIDCounter = "donationIdCounter"
	KeyAuditLog          = "auditLog"
)

// ErrKeyNotFound is returned by Get for a key that has never been set
// (or has been deleted).
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the backend contract.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
