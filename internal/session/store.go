package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/patric-chuzhbe/linkdash/internal/logger"
)

// Keys the credentials are persisted under.
const (
	TokenKey = "token"
	UserKey  = "user"
)

type keyValueStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Store owns the session state of one client process.
type Store struct {
	// dispatchMu serializes whole dispatches, notification included, so
	// subscribers observe transitions in the order they were applied.
	dispatchMu  sync.Mutex
	mu          sync.Mutex
	state       State
	db          keyValueStorage
	subscribers []func(State)
}

// New returns a Store in the logged-out default state. Call Hydrate to
// restore a persisted session.
func New(db keyValueStorage) *Store {
	return &Store{db: db}
}

// Dispatch applies a to the current state, performs the storage side
// effect of the transition inline and notifies subscribers. It returns the
// resulting snapshot.
//
// Storage failures are logged; the in-memory transition is kept.
func (s *Store) Dispatch(ctx context.Context, a Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next

	switch a.(type) {
	case LoginSuccess:
		if next.IsAuthenticated {
			s.persist(ctx, next)
		}
	case Logout:
		if err := s.db.Remove(ctx, TokenKey, UserKey); err != nil {
			logger.Log.Errorln("unable to erase persisted session", "error", err)
		}
	}

	snapshot := next.Clone()
	subscribers := append([]func(State){}, s.subscribers...)
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(snapshot.Clone())
	}

	return snapshot
}

func (s *Store) persist(ctx context.Context, st State) {
	userJSON, err := json.Marshal(st.User)
	if err != nil {
		logger.Log.Errorln("unable to encode session user", "error", err)
		return
	}

	if err := s.db.Set(ctx, TokenKey, st.Token); err != nil {
		logger.Log.Errorln("unable to persist session token", "error", err)
		return
	}

	if err := s.db.Set(ctx, UserKey, string(userJSON)); err != nil {
		logger.Log.Errorln("unable to persist session user", "error", err)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Subscribe registers fn to be called with the new state after every
// dispatched action, in dispatch order. fn may read the store but must not
// dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated
}

// Token returns the current credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Token
}
