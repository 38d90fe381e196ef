package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// KeyBrowser names the persisted browser binding
const KeyBrowser = "browser"

// BrowserBinding ties the dashboard session to the browser that logged in.
// The value is handed to that browser as a cookie and persisted next to the session,
// so a restored session stays reachable from the same browser.
type BrowserBinding struct {
	store ports.Store

	mu    sync.RWMutex
	value string
}

// NewBrowserBinding creates an empty binding. Call Restore to load a persisted one.
func NewBrowserBinding(store ports.Store) *BrowserBinding {
	return &BrowserBinding{store: store}
}

// Restore loads the persisted binding. A missing or unreadable binding leaves it empty.
func (b *BrowserBinding) Restore(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, err := b.store.Get(ctx, KeyBrowser)
	switch {
	case errors.Is(err, core.ErrNotFound):
		b.value = ""
	case err != nil:
		slogctx.Warn(ctx, "Could not read persisted browser binding", "error", err)
		b.value = ""
	default:
		b.value = value
	}
}

// Issue replaces the binding with a fresh random value and returns it.
// The previous browser loses access once the new value is persisted.
func (b *BrowserBinding) Issue(ctx context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating browser binding: %w", err)
	}
	value := id.String()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Set(ctx, map[string]string{KeyBrowser: value}); err != nil {
		return "", storeError("persisting browser binding", err)
	}
	b.value = value
	return value, nil
}

// Matches reports whether value is the current binding. An empty binding matches nothing.
func (b *BrowserBinding) Matches(value string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.value == "" || value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(b.value), []byte(value)) == 1
}

// Revoke forgets the binding and its persisted copy
func (b *BrowserBinding) Revoke(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Delete(ctx, KeyBrowser); err != nil {
		return storeError("removing browser binding", err)
	}
	b.value = ""
	return nil
}
