package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/dashboard/adapters/store"
	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/service"
)

func newAuth(t *testing.T, exchanger *fakeExchanger, opts ...service.AuthOption) (*service.AuthService, *service.SessionStore, *store.MemoryStore) {
	t.Helper()

	persistence := store.NewMemoryStore()
	sessions := service.NewSessionStore(persistence, nil)
	return service.NewAuthService(exchanger, sessions, opts...), sessions, persistence
}

func TestAuthService_Exchange(t *testing.T) {
	tests := []struct {
		name         string
		credential   core.Credential
		declared     string
		providerErr  string
		exchanger    *fakeExchanger
		want         core.Session
		wantKind     core.ExchangeFailure
		wantMessage  string
		wantNetCalls int
	}{
		{
			name:         "Hospital login",
			credential:   "google-cred",
			declared:     "hospital",
			exchanger:    &fakeExchanger{result: core.ExchangeResult{AccessToken: "abc123", Role: "hospital"}},
			want:         core.Session{Token: "abc123", Role: core.RoleHospital},
			wantNetCalls: 1,
		},
		{
			name:         "Backend role wins over declared role",
			credential:   "google-cred",
			declared:     "patient",
			exchanger:    &fakeExchanger{result: core.ExchangeResult{AccessToken: "adm", Role: "admin"}},
			want:         core.Session{Token: "adm", Role: core.RoleAdmin},
			wantNetCalls: 1,
		},
		{
			name:         "Invalid returned role",
			credential:   "google-cred",
			declared:     "hospital",
			exchanger:    &fakeExchanger{result: core.ExchangeResult{AccessToken: "abc123", Role: "superuser"}},
			wantKind:     core.FailureMalformed,
			wantMessage:  service.MsgInvalidRoleReceived,
			wantNetCalls: 1,
		},
		{
			name:         "Empty returned role",
			credential:   "google-cred",
			declared:     "hospital",
			exchanger:    &fakeExchanger{result: core.ExchangeResult{AccessToken: "abc123"}},
			wantKind:     core.FailureMalformed,
			wantMessage:  service.MsgInvalidRoleReceived,
			wantNetCalls: 1,
		},
		{
			name:         "Empty returned token",
			credential:   "google-cred",
			declared:     "hospital",
			exchanger:    &fakeExchanger{result: core.ExchangeResult{Role: "hospital"}},
			wantKind:     core.FailureMalformed,
			wantNetCalls: 1,
		},
		{
			name:       "Backend rejection",
			credential: "google-cred",
			declared:   "bloodbank",
			exchanger: &fakeExchanger{err: &core.ExchangeError{
				Kind:    core.FailureRejected,
				Message: "Role mismatch",
			}},
			wantKind:     core.FailureRejected,
			wantMessage:  "Role mismatch",
			wantNetCalls: 1,
		},
		{
			name:         "Untyped exchanger error",
			credential:   "google-cred",
			declared:     "bloodbank",
			exchanger:    &fakeExchanger{err: errBackendDown},
			wantKind:     core.FailureUnreachable,
			wantMessage:  service.MsgLoginFailed,
			wantNetCalls: 1,
		},
		{
			name:        "Provider error",
			credential:  "",
			declared:    "patient",
			providerErr: "popup_closed_by_user",
			exchanger:   &fakeExchanger{},
			wantKind:    core.FailureProvider,
			wantMessage: service.MsgProviderFailure,
		},
		{
			name:        "Missing credential",
			credential:  "",
			declared:    "patient",
			exchanger:   &fakeExchanger{},
			wantKind:    core.FailureProvider,
			wantMessage: service.MsgProviderFailure,
		},
		{
			name:        "Admin cannot be declared",
			credential:  "google-cred",
			declared:    "admin",
			exchanger:   &fakeExchanger{},
			wantKind:    core.FailureProvider,
			wantMessage: service.MsgInvalidDeclaredRole,
		},
		{
			name:        "Unknown declared role",
			credential:  "google-cred",
			declared:    "doctor",
			exchanger:   &fakeExchanger{},
			wantKind:    core.FailureProvider,
			wantMessage: service.MsgInvalidDeclaredRole,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, sessions, persistence := newAuth(t, tt.exchanger)

			got, err := auth.Exchange(t.Context(), tt.credential, tt.declared, tt.providerErr)

			assert.Equal(t, tt.wantNetCalls, tt.exchanger.callCount(), "exchanger calls")

			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.want, sessions.Current())
				assert.Equal(t, tt.want, service.NewSessionStore(persistence, nil).Restore(t.Context()))
				return
			}

			require.Error(t, err)
			assert.True(t, core.IsExchangeFailure(err, tt.wantKind), fmt.Sprintf("Exchange() error %v, want kind %s", err, tt.wantKind))
			if tt.wantMessage != "" {
				var exErr *core.ExchangeError
				require.ErrorAs(t, err, &exErr)
				assert.Equal(t, tt.wantMessage, exErr.Message)
			}

			assert.Equal(t, core.Session{}, got)
			assert.Equal(t, core.Session{}, sessions.Current(), "memory untouched")
			_, getErr := persistence.Get(t.Context(), service.KeyToken)
			assert.ErrorIs(t, getErr, core.ErrNotFound, "persistence untouched")
		})
	}
}

func TestAuthService_ExchangeFailureKeepsExistingSession(t *testing.T) {
	exchanger := &fakeExchanger{result: core.ExchangeResult{AccessToken: "abc123", Role: "superuser"}}
	auth, sessions, _ := newAuth(t, exchanger)
	require.NoError(t, sessions.Login(t.Context(), "previous", core.RolePatient))

	_, err := auth.Exchange(t.Context(), "cred", "hospital", "")
	require.Error(t, err)

	assert.Equal(t, core.Session{Token: "previous", Role: core.RolePatient}, sessions.Current())
}

func TestAuthService_ExchangeStoreFailure(t *testing.T) {
	persistence := newFlakyStore()
	persistence.failSet = true
	sessions := service.NewSessionStore(persistence, nil)
	auth := service.NewAuthService(&fakeExchanger{result: core.ExchangeResult{AccessToken: "abc", Role: "patient"}}, sessions)

	_, err := auth.Exchange(t.Context(), "cred", "patient", "")

	assert.True(t, core.IsExchangeFailure(err, core.FailureInternal), "Exchange() error %v", err)
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)
	assert.Empty(t, sessions.CurrentToken())
}

func TestAuthService_SingleFlight(t *testing.T) {
	exchanger := &fakeExchanger{
		result:  core.ExchangeResult{AccessToken: "abc", Role: "hospital"},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	auth, sessions, _ := newAuth(t, exchanger)

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = auth.Exchange(t.Context(), "cred", "hospital", "")
	}()

	<-exchanger.entered

	_, err := auth.Exchange(t.Context(), "cred", "patient", "")
	assert.True(t, core.IsExchangeFailure(err, core.FailureBusy), "second Exchange() error %v", err)

	close(exchanger.release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, core.Session{Token: "abc", Role: core.RoleHospital}, sessions.Current())
	assert.Equal(t, 1, exchanger.callCount())

	_, err = auth.Exchange(t.Context(), "cred", "hospital", "")
	assert.NoError(t, err, "guard is released after the first exchange")
}

func TestAuthService_SingleFlightDisabled(t *testing.T) {
	exchanger := &fakeExchanger{
		result:  core.ExchangeResult{AccessToken: "abc", Role: "hospital"},
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	auth, _, _ := newAuth(t, exchanger, service.WithSingleFlight(false))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = auth.Exchange(t.Context(), "cred", "hospital", "")
		}()
	}

	<-exchanger.entered
	<-exchanger.entered
	close(exchanger.release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 2, exchanger.callCount())
}

func TestAuthService_ExchangeIgnoresCancellation(t *testing.T) {
	exchanger := &fakeExchanger{
		result:  core.ExchangeResult{AccessToken: "abc", Role: "bloodbank"},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	auth, sessions, _ := newAuth(t, exchanger)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		_, err := auth.Exchange(ctx, "cred", "bloodbank", "")
		done <- err
	}()

	<-exchanger.entered
	cancel()
	close(exchanger.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("exchange did not finish")
	}
	assert.Equal(t, core.RoleBloodBank, sessions.CurrentRole())
}

func TestAuthService_Logout(t *testing.T) {
	auth, sessions, persistence := newAuth(t, &fakeExchanger{result: core.ExchangeResult{AccessToken: "abc", Role: "patient"}})

	_, err := auth.Exchange(t.Context(), "cred", "patient", "")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(t.Context()))
	assert.Equal(t, core.Session{}, sessions.Current())
	assert.Equal(t, core.Session{}, service.NewSessionStore(persistence, nil).Restore(t.Context()))
}
