package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/bloodlink/dashboard/adapters/store"
	"github.com/bloodlink/dashboard/core"
)

var errBackendDown = errors.New("backend down")

// flakyStore wraps a MemoryStore and fails writes on demand
type flakyStore struct {
	*store.MemoryStore
	failSet    bool
	failDelete bool
	failGet    bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: store.NewMemoryStore()}
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if s.failGet {
		return "", errBackendDown
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, entries map[string]string) error {
	if s.failSet {
		return errBackendDown
	}
	return s.MemoryStore.Set(ctx, entries)
}

func (s *flakyStore) Delete(ctx context.Context, keys ...string) error {
	if s.failDelete {
		return errBackendDown
	}
	return s.MemoryStore.Delete(ctx, keys...)
}

type publishedEvent struct {
	kind string
	role core.Role
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishLogin(_ context.Context, role core.Role) error {
	return p.record("login", role)
}

func (p *recordingPublisher) PublishLogout(_ context.Context, role core.Role) error {
	return p.record("logout", role)
}

func (p *recordingPublisher) record(kind string, role core.Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{kind: kind, role: role})
	return p.err
}

func (p *recordingPublisher) recorded() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type fakeExchanger struct {
	result core.ExchangeResult
	err    error

	mu       sync.Mutex
	calls    int
	declared core.Role
	release  chan struct{}
	entered  chan struct{}
}

func (f *fakeExchanger) Exchange(ctx context.Context, credential core.Credential, declared core.Role) (core.ExchangeResult, error) {
	f.mu.Lock()
	f.calls++
	f.declared = declared
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakeExchanger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
