package ports

import "context"

// KeyValueStore persists small string blobs under stable keys. Get returns
// an error wrapping domain.ErrKeyNotFound for absent keys; Delete is
// idempotent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
