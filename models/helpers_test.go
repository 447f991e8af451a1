package models_test

import (
	"errors"
	"time"

	"bitbucket.org/karoofoods/biltong_tracker/localstore"
)

var errForced = errors.New("forced storage fault")

func nowForTest() time.Time {
	return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
}

// dropWriteStore fails Set for one key while reads keep working, so a
// repository sees its write dropped on otherwise healthy data.
type dropWriteStore struct {
	*localstore.MemoryStore
	dropKey string
}

func (s *dropWriteStore) Set(key string, value []byte) error {
	if key == s.dropKey {
		return errForced
	}
	return s.MemoryStore.Set(key, value)
}
