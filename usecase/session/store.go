package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
)

const (
	loginFallback        = "Login failed"
	registrationFallback = "Registration failed"
)

// Listener observes every committed session state.
type Listener func(domain.Session)

// Store owns the session. Operations that touch durable storage or the
// outbound credential are serialised; snapshots can be read at any time.
type Store struct {
	auth   repository.AuthGateway
	creds  repository.CredentialStore
	holder repository.CredentialHolder
	logger *zap.Logger

	ops sync.Mutex

	mu        sync.RWMutex
	state     domain.Session
	listeners []Listener
}

func New(auth repository.AuthGateway, creds repository.CredentialStore, holder repository.CredentialHolder, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		auth:   auth,
		creds:  creds,
		holder: holder,
		logger: logger.Named("session"),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn for future transitions.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Login never fails from the caller's point of view: the outcome is the
// returned snapshot, with Error set when the attempt was rejected.
func (s *Store) Login(ctx context.Context, email, password string, role domain.Role) domain.Session {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.dispatch(LoginRequested{})
	email = strings.TrimLeft(email, " \t\r\n")
	creds, err := s.auth.Login(ctx, email, password, role)
	return s.settle(ctx, creds, err, loginFallback)
}

// Register behaves like Login for a new account. ManagerID is dropped for
// managers before the payload leaves the client.
func (s *Store) Register(ctx context.Context, reg domain.Registration) domain.Session {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.dispatch(LoginRequested{})
	if reg.Role == domain.RoleManager {
		reg.ManagerID = ""
	}
	creds, err := s.auth.Signup(ctx, reg)
	return s.settle(ctx, creds, err, registrationFallback)
}

// Logout clears durable storage and the outbound credential, then resets
// the state. The state is reset even when storage cannot be cleared.
func (s *Store) Logout(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	err := s.creds.Clear(ctx)
	if err != nil {
		s.logger.Error("clear stored credentials", zap.Error(err))
	}
	s.holder.ClearToken()
	s.dispatch(LoggedOut{})
	return err
}

func (s *Store) ClearError() domain.Session {
	return s.dispatch(ErrorCleared{})
}

// Rehydrate restores a previous session from durable storage without a
// backend round-trip. A token without a readable user snapshot, or the
// reverse, is treated as corrupt and wiped.
func (s *Store) Rehydrate(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	token, snapshot, err := s.creds.Load(ctx)
	if err != nil {
		s.holder.ClearToken()
		s.dispatch(LoggedOut{})
		return err
	}

	if token == "" && len(snapshot) == 0 {
		s.holder.ClearToken()
		s.dispatch(LoggedOut{})
		return nil
	}

	user, decodeErr := decodeUser(snapshot)
	if token == "" || decodeErr != nil {
		s.logger.Warn("discarding corrupt stored session",
			zap.Bool("has_token", token != ""),
			zap.Error(decodeErr))
		s.holder.ClearToken()
		s.dispatch(LoggedOut{})
		return s.creds.Clear(ctx)
	}

	s.holder.SetToken(token)
	s.dispatch(LoginSucceeded{User: user, Token: token})
	return nil
}

func (s *Store) settle(ctx context.Context, creds *repository.Credentials, err error, fallback string) domain.Session {
	log := appLogger.WithRequestID(ctx, s.logger)

	if err == nil {
		err = s.persist(ctx, creds)
	}
	if err != nil {
		message, ok := domain.ServerMessage(err)
		if !ok {
			message = fallback
		}
		log.Warn("authentication failed", zap.Error(err))
		if clearErr := s.creds.Clear(ctx); clearErr != nil {
			log.Error("clear stored credentials", zap.Error(clearErr))
		}
		s.holder.ClearToken()
		return s.dispatch(LoginFailed{Message: message})
	}

	s.holder.SetToken(creds.Token)
	log.Info("authenticated", zap.String("user_id", creds.User.ID), zap.String("role", string(creds.User.Role)))
	return s.dispatch(LoginSucceeded{User: creds.User, Token: creds.Token})
}

func (s *Store) persist(ctx context.Context, creds *repository.Credentials) error {
	if creds == nil || creds.Token == "" {
		return errors.New("session: backend returned no credential")
	}
	snapshot, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}
	return s.creds.Save(ctx, creds.Token, snapshot)
}

func (s *Store) dispatch(action Action) domain.Session {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	state := s.state.Clone()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state.Clone())
	}
	return state
}

func decodeUser(snapshot []byte) (domain.User, error) {
	var user domain.User
	if len(snapshot) == 0 {
		return user, errors.New("session: empty user snapshot")
	}
	if err := json.Unmarshal(snapshot, &user); err != nil {
		return user, err
	}
	if user.ID == "" {
		return user, errors.New("session: user snapshot has no id")
	}
	return user, nil
}
