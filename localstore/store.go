// Package localstore is the local durable cache: a string-keyed blob
// store holding one serialized collection per key. Implementations are
// injected into the repositories so tests can run against memory and
// deployments can choose file or redis backing.
package localstore

// BlobStore reads and writes whole collection blobs.
//
// Get returns (data, exists, error). exists=false with a nil error means
// the key was never written — callers treat that as an empty collection.
// A non-nil error is a storage fault and is reported separately so the
// caller can log it before degrading to a default.
type BlobStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
