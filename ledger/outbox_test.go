package ledger_test

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/ledger"
	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/models"
)

func TestOutboxEnqueueReplacesLiveEntryForSameRecord(t *testing.T) {
	outbox := ledger.NewOutbox(localstore.NewMemoryStore())

	est := models.Establishment{ID: "est-1", Name: "Karoo Padstal"}
	if err := outbox.Enqueue(ledger.EntityEstablishment, est.ID, est); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	est.Name = "Karoo Padstal (renamed)"
	if err := outbox.Enqueue(ledger.EntityEstablishment, est.ID, est); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("a newer mutation must replace the queued one, got %d entries", len(entries))
	}

	var stored models.Establishment
	if err := jsonUnmarshal(entries[0].Payload, &stored); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if stored.Name != "Karoo Padstal (renamed)" {
		t.Fatalf("only the latest state matters, got %q", stored.Name)
	}
}

func TestOutboxEnqueueKeepsDistinctRecordsSeparate(t *testing.T) {
	outbox := ledger.NewOutbox(localstore.NewMemoryStore())

	if err := outbox.Enqueue(ledger.EntityEstablishment, "est-1", models.Establishment{ID: "est-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := outbox.Enqueue(ledger.EntityTransaction, "est-1", models.Transaction{ID: "est-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := outbox.Enqueue(ledger.EntityEstablishment, "est-2", models.Establishment{ID: "est-2"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("same id across entities must not collide, got %d entries", len(entries))
	}
}

func TestOutboxPendingSkipsFutureAndDeadEntries(t *testing.T) {
	outbox := ledger.NewOutbox(localstore.NewMemoryStore())

	if err := outbox.Enqueue(ledger.EntityEmployee, "emp-1", models.Employee{ID: "emp-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := outbox.Enqueue(ledger.EntityEmployee, "emp-2", models.Employee{ID: "emp-2"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}

	// Push emp-1 into the future and kill emp-2.
	future := time.Now().UTC().Add(time.Hour)
	if err := outbox.MarkFailed(entries[0].ID, errors.New("remote down"), future, 0); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := outbox.MarkFailed(entries[1].ID, errors.New("remote down"), time.Now().UTC(), 1); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	due, err := outbox.Pending(time.Now().UTC())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("neither backed-off nor dead entries are due, got %d", len(due))
	}

	due, err = outbox.Pending(future.Add(time.Minute))
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(due) != 1 || due[0].RecordId != "emp-1" {
		t.Fatalf("only the backed-off entry becomes due again, got %+v", due)
	}
}

func TestOutboxMarkFailedGoesDeadAtMaxAttempts(t *testing.T) {
	outbox := ledger.NewOutbox(localstore.NewMemoryStore())
	if err := outbox.Enqueue(ledger.EntityProduct, "prod-1", models.Product{ID: "prod-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	entries, _ := outbox.Entries()
	id := entries[0].ID

	for i := 0; i < 3; i++ {
		if err := outbox.MarkFailed(id, errors.New("remote down"), time.Now().UTC(), 3); err != nil {
			t.Fatalf("mark failed: %v", err)
		}
	}

	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatal("dead entries stay visible for inspection")
	}
	if !entries[0].Dead {
		t.Fatalf("entry must be dead after 3 attempts, got %+v", entries[0])
	}
	if entries[0].Attempts != 3 {
		t.Fatalf("expected 3 recorded attempts, got %d", entries[0].Attempts)
	}
	if entries[0].LastError == "" {
		t.Fatal("the last error must be recorded")
	}
}

func TestOutboxMarkDoneRemovesEntry(t *testing.T) {
	outbox := ledger.NewOutbox(localstore.NewMemoryStore())
	if err := outbox.Enqueue(ledger.EntityProduct, "prod-1", models.Product{ID: "prod-1"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	entries, _ := outbox.Entries()

	if err := outbox.MarkDone(entries[0].ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	entries, err := outbox.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("done entries must be dropped, got %+v", entries)
	}
}

func TestOutboxPropagatesStorageFaults(t *testing.T) {
	store := localstore.NewMemoryStore()
	store.FailKeys = map[string]bool{ledger.OutboxKey: true}
	store.FailErr = errors.New("disk full")
	outbox := ledger.NewOutbox(store)

	if err := outbox.Enqueue(ledger.EntityProduct, "prod-1", models.Product{ID: "prod-1"}); err == nil {
		t.Fatal("a faulted store must surface the error, not degrade")
	}
	if _, err := outbox.Pending(time.Now().UTC()); err == nil {
		t.Fatal("a faulted read must surface the error")
	}
}
