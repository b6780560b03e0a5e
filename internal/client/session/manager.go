// Package session owns the client's belief about who is logged in.
//
// A Manager is the single writer of the session State. Readers either poll
// State or Subscribe to published snapshots. Actions are not serialized:
// concurrent actions race and the last one to publish wins. Every publish
// bumps State.Version so observers can tell snapshots apart.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/dropnshare/internal/client/client"
	"github.com/dmitrijs2005/dropnshare/internal/client/models"
	"github.com/dmitrijs2005/dropnshare/internal/client/tokenstore"
	"github.com/dmitrijs2005/dropnshare/internal/common"
	"github.com/dmitrijs2005/dropnshare/internal/logging"
)

// State is an immutable snapshot of the session.
type State struct {
	User      *models.User
	IsLoading bool
	Version   uint64
}

// IsAuthenticated reports whether a user is present. It is meaningless while
// IsLoading is true.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Manager drives the session through restore, login, registration, refresh
// and logout.
type Manager struct {
	api    client.Client
	tokens tokenstore.Store
	log    logging.Logger

	mu      sync.Mutex
	state   State
	subs    map[uint64]chan State
	nextSub uint64
}

// New returns a manager in the restoring state. The caller must run Restore
// once, typically after subscribing; NewRestored does both steps in one call.
func New(api client.Client, tokens tokenstore.Store, log logging.Logger) *Manager {
	return &Manager{
		api:    api,
		tokens: tokens,
		log:    log.With("component", "session"),
		state:  State{IsLoading: true},
		subs:   make(map[uint64]chan State),
	}
}

// NewRestored builds a manager and restores the stored session before
// returning.
func NewRestored(ctx context.Context, api client.Client, tokens tokenstore.Store, log logging.Logger) *Manager {
	m := New(api, tokens, log)
	m.Restore(ctx)
	return m
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel receiving every snapshot published after the
// call. The channel holds only the latest undelivered snapshot. cancel
// unregisters and closes the channel; it is safe to call more than once.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Restore resolves the initial state from the stored token. It always ends
// with IsLoading false. A token that no longer yields a user is cleared.
func (m *Manager) Restore(ctx context.Context) {
	user := m.resolveUser(ctx)
	m.publish(func(s *State) {
		s.User = user
		s.IsLoading = false
	})
}

// RefreshUser re-fetches the current user without touching IsLoading.
func (m *Manager) RefreshUser(ctx context.Context) {
	user := m.resolveUser(ctx)
	m.publish(func(s *State) {
		s.User = user
	})
}

// resolveUser reads the token and asks the backend who it belongs to. Any
// failure to obtain a user invalidates the token.
func (m *Manager) resolveUser(ctx context.Context) *models.User {
	if _, ok := m.tokens.Get(ctx); !ok {
		return nil
	}

	res := m.api.Me(ctx)
	if res.Data != nil {
		if user, ok := models.Normalize(res.Data.User); ok {
			return &user
		}
	}

	m.log.Info(ctx, "stored token rejected, clearing session", "status", res.Status, "error", res.Error)
	m.clearToken(ctx)
	return nil
}

// Login authenticates with email and password. On failure the state is left
// unchanged and the returned error is either the request's *client.RequestError
// or common.ErrInvalidResponse.
func (m *Manager) Login(ctx context.Context, payload client.LoginPayload) error {
	return m.authenticate(ctx, "login", m.api.Login(ctx, payload))
}

// Register creates an account and logs into it, with the same contract as
// Login.
func (m *Manager) Register(ctx context.Context, payload client.RegisterPayload) error {
	return m.authenticate(ctx, "register", m.api.Register(ctx, payload))
}

func (m *Manager) authenticate(ctx context.Context, action string, res client.Result[client.AuthResponse]) error {
	if err := res.Err(); err != nil {
		return err
	}

	token := res.Data.AccessToken()
	var (
		user   models.User
		hasUsr bool
	)
	if res.Data.HasUser() {
		user, hasUsr = models.Normalize(res.Data.User)
	}

	if token == "" || !hasUsr {
		m.log.Warn(ctx, "invalid auth response",
			"action", action, "has_data", res.Data != nil, "has_token", token != "", "has_user", hasUsr)
		return common.ErrInvalidResponse
	}

	if err := m.tokens.Set(ctx, token); err != nil {
		m.log.Error(ctx, "failed to persist token", "action", action, "error", err)
	}
	m.publish(func(s *State) {
		s.User = &user
	})
	m.log.Info(ctx, "authenticated", "action", action, "user_id", user.ID)
	return nil
}

// Logout notifies the backend and then clears the local session regardless
// of the outcome.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx).Err(); err != nil {
		m.log.Info(ctx, "logout request failed", "error", err, "unavailable", errors.Is(err, client.ErrUnavailable))
	}
	m.clearToken(ctx)
	m.publish(func(s *State) {
		s.User = nil
	})
}

func (m *Manager) clearToken(ctx context.Context) {
	if err := m.tokens.Set(ctx, ""); err != nil {
		m.log.Error(ctx, "failed to clear token", "error", err)
	}
}

// publish applies fn to the state, bumps the version and fans the snapshot
// out to subscribers without blocking.
func (m *Manager) publish(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&m.state)
	m.state.Version++
	snapshot := m.state

	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}
