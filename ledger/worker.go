package ledger

import (
	"context"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/config"
	"bitbucket.org/karoofoods/biltong_tracker/models"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ReplayAPI is the slice of the remote store the worker needs: full
// record upserts, idempotent by id.
type ReplayAPI interface {
	UpsertEstablishment(ctx context.Context, est models.Establishment) error
	UpsertEmployee(ctx context.Context, emp models.Employee) error
	UpsertProduct(ctx context.Context, p models.Product) error
	UpsertTransaction(ctx context.Context, txn models.Transaction) error
}

const flushLockKey = "biltong-tracker-outbox-flush"

// Worker drains the outbox against the remote store. One worker per
// process; the redislock keeps multiple processes sharing a redis-backed
// store from replaying the same entries.
type Worker struct {
	Outbox *Outbox
	Replay ReplayAPI
	Logger *logrus.Logger
	Locker *redislock.Client

	WorkerID       string
	PollInterval   time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

func NewWorker(outbox *Outbox, replay ReplayAPI, logger *logrus.Logger) *Worker {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Worker{
		Outbox:         outbox,
		Replay:         replay,
		Logger:         logger,
		WorkerID:       uuid.NewString(),
		PollInterval:   30 * time.Second,
		MaxAttempts:    20,
		InitialBackoff: 5 * time.Second,
	}
}

func (w *Worker) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.FlushOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.PollInterval):
		}
	}
}

var tracer trace.Tracer = otel.Tracer("biltong-tracker/ledger")

// FlushOnce replays every due entry once. Failures back off
// exponentially per entry; poison entries go dead after MaxAttempts.
func (w *Worker) FlushOnce(ctx context.Context) {
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	ctx, span := tracer.Start(ctx, "outbox.flush")
	defer span.End()

	if w.Locker != nil {
		lock, err := w.Locker.Obtain(ctx, flushLockKey, w.PollInterval, nil)
		if err != nil {
			if err != redislock.ErrNotObtained {
				config.LogError(w.Logger, moduleName, "FlushOnce", "obtain flush lock", w.WorkerID, err)
			}
			return
		}
		defer lock.Release(ctx)
	}

	now := time.Now().UTC()
	due, err := w.Outbox.Pending(now)
	if err != nil {
		config.LogError(w.Logger, moduleName, "FlushOnce", "load outbox", w.WorkerID, err)
		return
	}

	for _, entry := range due {
		if err := w.replayEntry(ctx, entry); err != nil {
			backoff := w.InitialBackoff * time.Duration(1<<min(entry.Attempts, 6))
			if markErr := w.Outbox.MarkFailed(entry.ID, err, time.Now().UTC().Add(backoff), w.MaxAttempts); markErr != nil {
				config.LogError(w.Logger, moduleName, "FlushOnce", "mark failed", entry.ID, markErr)
			}
			correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
			deviceId, _ := utils.GetDeviceIdFromContext(ctx)
			w.Logger.WithFields(logrus.Fields{
				"module":        moduleName,
				"correlationId": correlationId,
				"deviceId":      deviceId,
				"entry":         entry.ID,
				"entity":        entry.Entity,
				"attempts":      entry.Attempts + 1,
			}).Warn("outbox replay failed: " + err.Error())
			continue
		}
		if err := w.Outbox.MarkDone(entry.ID); err != nil {
			config.LogError(w.Logger, moduleName, "FlushOnce", "mark done", entry.ID, err)
		}
	}
}

func (w *Worker) replayEntry(ctx context.Context, entry OutboxEntry) error {
	switch entry.Entity {
	case EntityEstablishment:
		var est models.Establishment
		if err := utils.UnmarshalFromJSON(entry.Payload, &est); err != nil {
			return err
		}
		return w.Replay.UpsertEstablishment(ctx, est)
	case EntityEmployee:
		var emp models.Employee
		if err := utils.UnmarshalFromJSON(entry.Payload, &emp); err != nil {
			return err
		}
		return w.Replay.UpsertEmployee(ctx, emp)
	case EntityProduct:
		var p models.Product
		if err := utils.UnmarshalFromJSON(entry.Payload, &p); err != nil {
			return err
		}
		return w.Replay.UpsertProduct(ctx, p)
	case EntityTransaction:
		var txn models.Transaction
		if err := utils.UnmarshalFromJSON(entry.Payload, &txn); err != nil {
			return err
		}
		return w.Replay.UpsertTransaction(ctx, txn)
	}
	return utils.ErrorRecordNotFound
}
