package ports

import "context"

// Store is the key-value persistence surface behind the session store.
// Implementations must apply multi-key writes and deletes as one operation.
type Store interface {
	// Get returns core.ErrNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, entries map[string]string) error
	// Delete succeeds for absent keys
	Delete(ctx context.Context, keys ...string) error
}
