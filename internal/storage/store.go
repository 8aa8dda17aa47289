package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Download when the named object does not
// exist. Callers treat it as "empty input", not a failure.
var ErrNotFound = errors.New("object not found")

// ObjectStore is a key-value blob store addressed by (container, name).
// Uploads are full overwrites; there are no partial reads or writes and
// no locking. Overlapping pipeline runs can race on the same artifact
// and the last writer wins, an accepted limitation of the store, not
// a behavior callers may rely on.
type ObjectStore interface {
	Exists(ctx context.Context, container, name string) (bool, error)
	Download(ctx context.Context, container, name string) ([]byte, error)
	Upload(ctx context.Context, container, name string, data []byte) error
	Close() error
}
