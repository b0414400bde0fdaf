// Package kv defines the key-value persistence contract the store
// writes its collections through. Each collection is a single record
// holding a serialized JSON array, mirroring how a browser's local
// storage would hold it.
package kv

import (
	"context"
	"errors"
)

// Prefix namespaces every record written by this service.
const Prefix = "smu_"

var ErrNotFound = errors.New("not found")

// Backend reads and writes whole named records.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
