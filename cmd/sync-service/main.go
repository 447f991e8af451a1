// sync-service drains the durable outbox against the remote store. Run
// one per device (or one per site with REDIS_STORE_ENABLED, where the
// flush lock keeps replicas from replaying the same entries).
//
// Usage:
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//   BILTONG_DATA_DIR=/var/lib/biltong OUTBOX_ENABLED=true go run ./cmd/sync-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/ledger"
	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/remote"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if deviceId := strings.TrimSpace(os.Getenv("DEVICE_ID")); deviceId != "" {
		sigCtx = utils.SetDeviceIdInContext(sigCtx, deviceId)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		remote.MigrateTable(db)
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	store, err := buildBlobStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open blob store: %v\n", err)
		os.Exit(1)
	}

	outbox := ledger.NewOutbox(store)
	worker := ledger.NewWorker(outbox, remote.NewStore(db, logger), logger)
	worker.PollInterval = time.Duration(intFromEnv("OUTBOX_POLL_SECONDS", 30)) * time.Second
	worker.MaxAttempts = intFromEnv("OUTBOX_MAX_ATTEMPTS", 20)
	if config.RedisStoreEnabled() {
		worker.Locker = config.GetRedisLock()
	}

	logger.WithFields(logrus.Fields{"worker": worker.WorkerID}).Info("sync-service started")
	worker.Run(sigCtx)
}

func buildBlobStore() (localstore.BlobStore, error) {
	if config.RedisStoreEnabled() {
		config.ConnectRedisWithRetry()
		return localstore.NewRedisStore(config.GetRedisDB(), config.GetRedisContext()), nil
	}
	dataDir := strings.TrimSpace(os.Getenv("BILTONG_DATA_DIR"))
	if dataDir == "" {
		dataDir = "biltong-data"
	}
	return localstore.NewFileStore(dataDir)
}

func intFromEnv(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
