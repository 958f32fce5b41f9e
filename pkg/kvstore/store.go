// Package kvstore provides the durable key-value capability the booking front
// end persists its state into. Values are opaque JSON documents.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a string-keyed store of JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
