package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type memoryCredentials struct {
	mu       sync.Mutex
	token    string
	snapshot []byte
	saveErr  error
}

func (m *memoryCredentials) Load(context.Context) (string, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, append([]byte(nil), m.snapshot...), nil
}

func (m *memoryCredentials) Save(_ context.Context, token string, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	m.snapshot = append([]byte(nil), snapshot...)
	return nil
}

func (m *memoryCredentials) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.snapshot = nil
	return nil
}

type memoryHolder struct {
	mu    sync.Mutex
	token string
}

func (h *memoryHolder) SetToken(token string) {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
}

func (h *memoryHolder) ClearToken() { h.SetToken("") }

func (h *memoryHolder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token
}

type stubAuth struct {
	creds   *repository.Credentials
	err     error
	lastReg domain.Registration
	email   string
	calls   int
}

func (a *stubAuth) Login(_ context.Context, email, _ string, _ domain.Role) (*repository.Credentials, error) {
	a.calls++
	a.email = email
	return a.creds, a.err
}

func (a *stubAuth) Signup(_ context.Context, reg domain.Registration) (*repository.Credentials, error) {
	a.calls++
	a.lastReg = reg
	return a.creds, a.err
}

var ada = domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleEmployee, ManagerID: "m1"}

func newStore(auth *stubAuth) (*Store, *memoryCredentials, *memoryHolder) {
	creds := &memoryCredentials{}
	holder := &memoryHolder{}
	return New(auth, creds, holder, nil), creds, holder
}

func TestLoginSuccessArmsCredentialAndPersists(t *testing.T) {
	auth := &stubAuth{creds: &repository.Credentials{User: ada, Token: "tok"}}
	store, creds, holder := newStore(auth)

	var seen []domain.Session
	store.Subscribe(func(s domain.Session) { seen = append(seen, s) })

	state := store.Login(context.Background(), "  ada@example.com", "pw", domain.RoleEmployee)

	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
	assert.Equal(t, "tok", state.Token)
	assert.Equal(t, "ada@example.com", auth.email)
	assert.Equal(t, "tok", holder.Token())
	assert.Equal(t, "tok", creds.token)

	var stored domain.User
	require.NoError(t, json.Unmarshal(creds.snapshot, &stored))
	assert.Equal(t, ada, stored)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsLoading)
	assert.True(t, seen[1].IsAuthenticated)
}

func TestFailedLoginKeepsServerMessageVerbatim(t *testing.T) {
	auth := &stubAuth{err: &domain.RemoteError{StatusCode: 401, Message: "Invalid email or password"}}
	store, creds, holder := newStore(auth)

	state := store.Login(context.Background(), "ada@example.com", "wrong", domain.RoleEmployee)

	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assert.Equal(t, "Invalid email or password", state.Error)
	assert.Empty(t, holder.Token())
	assert.Empty(t, creds.token)
}

func TestFailureWithoutServerMessageUsesFallback(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Store) domain.Session
		want string
	}{
		{
			name: "login",
			run: func(s *Store) domain.Session {
				return s.Login(context.Background(), "a", "b", domain.RoleManager)
			},
			want: "Login failed",
		},
		{
			name: "register",
			run: func(s *Store) domain.Session {
				return s.Register(context.Background(), domain.Registration{Name: "A", Role: domain.RoleManager})
			},
			want: "Registration failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, _ := newStore(&stubAuth{err: errors.New("connection refused")})
			assert.Equal(t, tt.want, tt.run(store).Error)
		})
	}
}

func TestPersistFailureIsReportedAsLoginFailure(t *testing.T) {
	auth := &stubAuth{creds: &repository.Credentials{User: ada, Token: "tok"}}
	store, creds, holder := newStore(auth)
	creds.saveErr = errors.New("disk full")

	state := store.Login(context.Background(), "ada@example.com", "pw", domain.RoleEmployee)

	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, "Login failed", state.Error)
	assert.Empty(t, holder.Token())
}

func TestRegisterOmitsManagerIDForManagers(t *testing.T) {
	auth := &stubAuth{creds: &repository.Credentials{User: domain.User{ID: "m2", Role: domain.RoleManager}, Token: "tok"}}
	store, _, _ := newStore(auth)

	state := store.Register(context.Background(), domain.Registration{
		Name: "Maria", Email: "m@example.com", Password: "pw", Role: domain.RoleManager, ManagerID: "m1",
	})

	assert.True(t, state.IsAuthenticated)
	assert.Empty(t, auth.lastReg.ManagerID)
}

func TestLogoutThenRehydrateIsUnauthenticated(t *testing.T) {
	auth := &stubAuth{creds: &repository.Credentials{User: ada, Token: "tok"}}
	store, creds, holder := newStore(auth)
	ctx := context.Background()

	store.Login(ctx, "ada@example.com", "pw", domain.RoleEmployee)
	require.NoError(t, store.Logout(ctx))

	assert.Empty(t, creds.token)
	assert.Empty(t, creds.snapshot)
	assert.Empty(t, holder.Token())

	fresh := New(auth, creds, holder, nil)
	require.NoError(t, fresh.Rehydrate(ctx))
	assert.False(t, fresh.Snapshot().IsAuthenticated)
	assert.Equal(t, 1, auth.calls)
}

func TestRehydrateIsIdempotent(t *testing.T) {
	snapshot, err := json.Marshal(ada)
	require.NoError(t, err)
	creds := &memoryCredentials{token: "tok", snapshot: snapshot}
	holder := &memoryHolder{}
	auth := &stubAuth{}
	store := New(auth, creds, holder, nil)
	ctx := context.Background()

	require.NoError(t, store.Rehydrate(ctx))
	once := store.Snapshot()
	require.NoError(t, store.Rehydrate(ctx))
	twice := store.Snapshot()

	assert.Equal(t, once, twice)
	assert.True(t, twice.IsAuthenticated)
	assert.Equal(t, ada, *twice.User)
	assert.Equal(t, "tok", holder.Token())
	assert.Zero(t, auth.calls)
}

func TestRehydrateClearsCorruptState(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		snapshot []byte
	}{
		{name: "unparsable user", token: "tok", snapshot: []byte("{not json")},
		{name: "token without user", token: "tok"},
		{name: "user without token", snapshot: []byte(`{"id":"u1"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &memoryCredentials{token: tt.token, snapshot: tt.snapshot}
			holder := &memoryHolder{token: "stale"}
			store := New(&stubAuth{}, creds, holder, nil)

			require.NoError(t, store.Rehydrate(context.Background()))

			state := store.Snapshot()
			assert.False(t, state.IsAuthenticated)
			assert.Nil(t, state.User)
			assert.Empty(t, creds.token)
			assert.Empty(t, creds.snapshot)
			assert.Empty(t, holder.Token())
		})
	}
}

func TestClearErrorTouchesOnlyError(t *testing.T) {
	store, _, _ := newStore(&stubAuth{err: &domain.RemoteError{StatusCode: 400, Message: "bad"}})
	failed := store.Login(context.Background(), "a", "b", domain.RoleEmployee)
	require.Equal(t, "bad", failed.Error)

	cleared := store.ClearError()
	failed.Error = ""
	assert.Equal(t, failed, cleared)
}
