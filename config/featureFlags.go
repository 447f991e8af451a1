package config

import (
	"os"
	"strings"
)

// OutboxEnabled turns on the durable outbox: remote write failures are
// queued in the local blob store and replayed by the sync worker instead
// of being dropped after the user notification.
//
// Set via env:
// - OUTBOX_ENABLED=true
func OutboxEnabled() bool {
	return boolFromEnv("OUTBOX_ENABLED")
}

// RedisStoreEnabled selects the redis-backed blob store instead of the
// file-backed one. Intended for kiosk deployments where several thin
// clients share one on-site cache.
//
// Set via env:
// - REDIS_STORE_ENABLED=true
func RedisStoreEnabled() bool {
	return boolFromEnv("REDIS_STORE_ENABLED")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
