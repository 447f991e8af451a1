package ledger

import (
	"encoding/json"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
	"bitbucket.org/karoofoods/biltong_tracker/utils"
	"github.com/google/uuid"
)

// OutboxKey holds the durable queue of mutations that could not reach
// the remote store. Entries are full records in the local shape; replay
// is an upsert, so re-running an entry after a crash is safe.
const OutboxKey = "biltong-tracker-outbox"

type Entity string

const (
	EntityEstablishment Entity = "establishment"
	EntityEmployee      Entity = "employee"
	EntityProduct       Entity = "product"
	EntityTransaction   Entity = "transaction"
)

type OutboxEntry struct {
	ID            string          `json:"id"`
	Entity        Entity          `json:"entity"`
	RecordId      string          `json:"recordId"`
	Payload       json.RawMessage `json:"payload"`
	Attempts      int             `json:"attempts"`
	LastError     string          `json:"lastError,omitempty"`
	NextAttemptAt time.Time       `json:"nextAttemptAt"`
	Dead          bool            `json:"dead,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Outbox persists its queue through the same blob store as the entity
// collections. Unlike the repositories it does not degrade faults to
// defaults: losing queued mutations is divergence, so errors propagate
// to the worker, which logs and retries.
type Outbox struct {
	store localstore.BlobStore
}

func NewOutbox(store localstore.BlobStore) *Outbox {
	return &Outbox{store: store}
}

func (o *Outbox) load() ([]OutboxEntry, error) {
	data, exists, err := o.store.Get(OutboxKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []OutboxEntry{}, nil
	}
	var entries []OutboxEntry
	if err := utils.UnmarshalFromJSON(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (o *Outbox) persist(entries []OutboxEntry) error {
	data, err := utils.MarshalToJSON(entries)
	if err != nil {
		return err
	}
	return o.store.Set(OutboxKey, data)
}

// Enqueue captures a record for replay. A newer mutation of the same
// record replaces the queued one: replay pushes full records, so only
// the latest state matters.
func (o *Outbox) Enqueue(entity Entity, recordId string, record any) error {
	payload, err := utils.MarshalToJSON(record)
	if err != nil {
		return err
	}
	entries, err := o.load()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].Entity == entity && entries[i].RecordId == recordId && !entries[i].Dead {
			entries[i].Payload = payload
			entries[i].NextAttemptAt = now
			return o.persist(entries)
		}
	}
	entries = append(entries, OutboxEntry{
		ID:            uuid.NewString(),
		Entity:        entity,
		RecordId:      recordId,
		Payload:       payload,
		NextAttemptAt: now,
		CreatedAt:     now,
	})
	return o.persist(entries)
}

// Pending returns entries due for replay, oldest first.
func (o *Outbox) Pending(now time.Time) ([]OutboxEntry, error) {
	entries, err := o.load()
	if err != nil {
		return nil, err
	}
	due := make([]OutboxEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Dead && !e.NextAttemptAt.After(now) {
			due = append(due, e)
		}
	}
	return due, nil
}

func (o *Outbox) MarkDone(id string) error {
	entries, err := o.load()
	if err != nil {
		return err
	}
	remaining := entries[:0:0]
	for _, e := range entries {
		if e.ID != id {
			remaining = append(remaining, e)
		}
	}
	return o.persist(remaining)
}

// MarkFailed records the attempt; past maxAttempts the entry goes dead
// and stays visible for operator inspection instead of being retried.
func (o *Outbox) MarkFailed(id string, cause error, nextAttemptAt time.Time, maxAttempts int) error {
	entries, err := o.load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		entries[i].Attempts++
		entries[i].LastError = cause.Error()
		entries[i].NextAttemptAt = nextAttemptAt
		if maxAttempts > 0 && entries[i].Attempts >= maxAttempts {
			entries[i].Dead = true
		}
		return o.persist(entries)
	}
	return nil
}

// Entries returns the whole queue, dead included.
func (o *Outbox) Entries() ([]OutboxEntry, error) {
	return o.load()
}
