package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkdash/internal/db/memorystorage"
	"github.com/patric-chuzhbe/linkdash/internal/mockstorage"
)

func newMemoryStore(t *testing.T) (*Store, *memorystorage.MemoryStorage) {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)

	return New(db), db
}

func TestLoginSuccessIsPersisted(t *testing.T) {
	ctx := context.Background()
	store, db := newMemoryStore(t)

	state := store.Dispatch(ctx, LoginSuccess{User: ann, Token: "abc"})
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "abc", store.Token())

	token, found, err := db.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", token)

	userJSON, found, err := db.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"_id":"1","name":"Ann","email":"ann@example.com"}`, userJSON)
}

func TestLogoutErasesStorage(t *testing.T) {
	ctx := context.Background()
	store, db := newMemoryStore(t)

	store.Dispatch(ctx, LoginSuccess{User: ann, Token: "abc"})
	state := store.Dispatch(ctx, Logout{})

	assert.Equal(t, State{}, state)
	assert.False(t, store.IsAuthenticated())

	_, found, err := db.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = db.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorageFailureKeepsTransition(t *testing.T) {
	ctx := context.Background()
	db := &mockstorage.StorageMock{}
	db.On("Set", mock.Anything, TokenKey, "abc").Return(errors.New("disk full"))
	db.On("Remove", mock.Anything, []string{TokenKey, UserKey}).Return(errors.New("disk full"))

	store := New(db)

	state := store.Dispatch(ctx, LoginSuccess{User: ann, Token: "abc"})
	assert.True(t, state.IsAuthenticated)

	state = store.Dispatch(ctx, Logout{})
	assert.False(t, state.IsAuthenticated)

	db.AssertExpectations(t)
	db.AssertNotCalled(t, "Set", mock.Anything, UserKey, mock.Anything)
}

func TestNonPersistingActionsDoNotTouchStorage(t *testing.T) {
	ctx := context.Background()
	db := &mockstorage.StorageMock{}
	store := New(db)

	store.Dispatch(ctx, Loading{Active: true})
	store.Dispatch(ctx, AuthError{Message: "Login failed"})
	store.Dispatch(ctx, ClearError{})
	store.Dispatch(ctx, LoginSuccess{User: ann})

	db.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestSubscribersSeeEveryTransition(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)

	var seen []State
	store.Subscribe(func(s State) {
		seen = append(seen, s)
	})

	store.Dispatch(ctx, Loading{Active: true})
	store.Dispatch(ctx, LoginSuccess{User: ann, Token: "abc"})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsLoading)
	assert.True(t, seen[1].IsAuthenticated)
	assert.False(t, seen[1].IsLoading)

	seen[1].User.Name = "Bob"
	assert.Equal(t, "Ann", store.Snapshot().User.Name)
}

func TestConcurrentDispatchNotifiesInOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)

	var (
		seen     []State
		mismatch int
	)
	store.Subscribe(func(s State) {
		if s.IsLoading != store.Snapshot().IsLoading {
			mismatch++
		}
		seen = append(seen, s)
	})

	const dispatches = 200
	var wg sync.WaitGroup
	for i := 0; i < dispatches; i++ {
		wg.Add(1)
		go func(active bool) {
			defer wg.Done()
			store.Dispatch(ctx, Loading{Active: active})
		}(i%2 == 0)
	}
	wg.Wait()

	require.Len(t, seen, dispatches)
	assert.Zero(t, mismatch)
	assert.Equal(t, store.Snapshot().IsLoading, seen[len(seen)-1].IsLoading)
}
