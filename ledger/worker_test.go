package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/ledger"
	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/models"
)

func jsonUnmarshal(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

// stubReplay records upserts; entities listed in FailEntities error.
type stubReplay struct {
	FailEntities map[ledger.Entity]bool

	establishments []models.Establishment
	employees      []models.Employee
	products       []models.Product
	transactions   []models.Transaction
}

var errReplayRefused = errors.New("replay refused")

func (s *stubReplay) UpsertEstablishment(ctx context.Context, est models.Establishment) error {
	if s.FailEntities[ledger.EntityEstablishment] {
		return errReplayRefused
	}
	s.establishments = append(s.establishments, est)
	return nil
}

func (s *stubReplay) UpsertEmployee(ctx context.Context, emp models.Employee) error {
	if s.FailEntities[ledger.EntityEmployee] {
		return errReplayRefused
	}
	s.employees = append(s.employees, emp)
	return nil
}

func (s *stubReplay) UpsertProduct(ctx context.Context, p models.Product) error {
	if s.FailEntities[ledger.EntityProduct] {
		return errReplayRefused
	}
	s.products = append(s.products, p)
	return nil
}

func (s *stubReplay) UpsertTransaction(ctx context.Context, txn models.Transaction) error {
	if s.FailEntities[ledger.EntityTransaction] {
		return errReplayRefused
	}
	s.transactions = append(s.transactions, txn)
	return nil
}

func newTestWorker(t *testing.T, replay *stubReplay) (*ledger.Worker, *ledger.Outbox) {
	t.Helper()
	outbox := ledger.NewOutbox(localstore.NewMemoryStore())
	worker := ledger.NewWorker(outbox, replay, quietLogger())
	worker.InitialBackoff = time.Millisecond
	return worker, outbox
}

func TestFlushOnceReplaysAndDrainsDueEntries(t *testing.T) {
	replay := &stubReplay{}
	worker, outbox := newTestWorker(t, replay)

	est := models.Establishment{ID: "est-1", Name: "Karoo Padstal"}
	txn := models.Transaction{ID: "txn-1", EstablishmentId: "est-1"}
	if err := outbox.Enqueue(ledger.EntityEstablishment, est.ID, est); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := outbox.Enqueue(ledger.EntityTransaction, txn.ID, txn); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	worker.FlushOnce(context.Background())

	if len(replay.establishments) != 1 || replay.establishments[0].ID != "est-1" {
		t.Fatalf("establishment not replayed: %+v", replay.establishments)
	}
	if len(replay.transactions) != 1 || replay.transactions[0].ID != "txn-1" {
		t.Fatalf("transaction not replayed: %+v", replay.transactions)
	}

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("replayed entries must be drained, got %+v", entries)
	}
}

func TestFlushOnceBacksOffFailedEntries(t *testing.T) {
	replay := &stubReplay{FailEntities: map[ledger.Entity]bool{ledger.EntityProduct: true}}
	worker, outbox := newTestWorker(t, replay)

	if err := outbox.Enqueue(ledger.EntityProduct, "prod-1", models.Product{ID: "prod-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := outbox.Enqueue(ledger.EntityEmployee, "emp-1", models.Employee{ID: "emp-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	worker.FlushOnce(context.Background())

	if len(replay.employees) != 1 {
		t.Fatal("healthy entries must still replay when a sibling fails")
	}

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("the failed entry must stay queued, got %+v", entries)
	}
	if entries[0].Attempts != 1 || entries[0].LastError == "" {
		t.Fatalf("the failure must be recorded, got %+v", entries[0])
	}
	if entries[0].Dead {
		t.Fatal("a first failure must not kill the entry")
	}
}

func TestFlushOnceKillsEntryAtMaxAttempts(t *testing.T) {
	replay := &stubReplay{FailEntities: map[ledger.Entity]bool{ledger.EntityProduct: true}}
	worker, outbox := newTestWorker(t, replay)
	worker.MaxAttempts = 2
	worker.InitialBackoff = 0

	if err := outbox.Enqueue(ledger.EntityProduct, "prod-1", models.Product{ID: "prod-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	worker.FlushOnce(context.Background())
	worker.FlushOnce(context.Background())

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || !entries[0].Dead {
		t.Fatalf("entry must be dead after MaxAttempts failures, got %+v", entries)
	}

	// Dead entries never replay again.
	worker.FlushOnce(context.Background())
	if entries, _ := outbox.Entries(); entries[0].Attempts != 2 {
		t.Fatalf("dead entries must not accrue attempts, got %+v", entries[0])
	}
}

func TestFlushOnceMalformedPayloadGoesThroughRetryPath(t *testing.T) {
	replay := &stubReplay{}
	worker, outbox := newTestWorker(t, replay)
	worker.MaxAttempts = 1
	worker.InitialBackoff = 0

	// An entity tag the replay switch does not know is a poison entry.
	if err := outbox.Enqueue(ledger.Entity("unknown"), "x-1", models.Product{ID: "x-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	worker.FlushOnce(context.Background())

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || !entries[0].Dead {
		t.Fatalf("poison entries must go dead, got %+v", entries)
	}
}
