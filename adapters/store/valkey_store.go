package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// ValkeyStore is a Valkey implementation of the Store interface
type ValkeyStore struct {
	valkey valkey.Client
	prefix string
}

// NewValkeyStore creates a new Valkey store
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	return &ValkeyStore{
		valkey: client,
		prefix: normalisePrefix(prefix),
	}
}

var _ ports.Store = (*ValkeyStore)(nil)

func (s *ValkeyStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(prefixedKey(s.prefix, key)).Build()).ToString()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("executing get command: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return value, nil
}

func (s *ValkeyStore) Set(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	cmd := s.valkey.B().Mset().KeyValue()
	for _, k := range sortedKeys(entries) {
		cmd = cmd.KeyValue(prefixedKey(s.prefix, k), entries[k])
	}

	if err := s.valkey.Do(ctx, cmd.Build()).Error(); err != nil {
		return fmt.Errorf("executing mset command: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, prefixedKey(s.prefix, k))
	}

	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(full...).Build()).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return nil
}

// Close closes the Valkey client
func (s *ValkeyStore) Close() {
	s.valkey.Close()
}
