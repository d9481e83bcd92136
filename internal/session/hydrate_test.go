package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkdash/internal/mockstorage"
)

func TestHydrate(t *testing.T) {
	tests := []struct {
		name      string
		entries   map[string]string
		wantState State
		wantKept  bool
	}{
		{
			name:      "nothing persisted",
			entries:   map[string]string{},
			wantState: State{},
		},
		{
			name: "valid session",
			entries: map[string]string{
				TokenKey: "abc",
				UserKey:  `{"_id":"1","name":"Ann","email":"ann@example.com"}`,
			},
			wantState: State{User: &ann, Token: "abc", IsAuthenticated: true},
			wantKept:  true,
		},
		{
			name: "corrupt user record",
			entries: map[string]string{
				TokenKey: "abc",
				UserKey:  `{"_id":`,
			},
			wantState: State{},
		},
		{
			name:      "token without user",
			entries:   map[string]string{TokenKey: "abc"},
			wantState: State{},
		},
		{
			name:      "user without token",
			entries:   map[string]string{UserKey: `{"_id":"1","name":"Ann","email":"ann@example.com"}`},
			wantState: State{},
		},
		{
			name: "empty user record",
			entries: map[string]string{
				TokenKey: "abc",
				UserKey:  `{}`,
			},
			wantState: State{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, db := newMemoryStore(t)
			for key, value := range tt.entries {
				require.NoError(t, db.Set(ctx, key, value))
			}

			got := Hydrate(ctx, store)
			assert.Equal(t, tt.wantState, got)
			assert.Equal(t, tt.wantState, store.Snapshot())

			_, tokenFound, err := db.Get(ctx, TokenKey)
			require.NoError(t, err)
			_, userFound, err := db.Get(ctx, UserKey)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKept, tokenFound)
			assert.Equal(t, tt.wantKept, userFound)
		})
	}
}

func TestHydrateReadFailure(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("Get", mock.Anything, TokenKey).Return("", false, errors.New("locked"))

	state := Hydrate(context.Background(), New(db))

	assert.Equal(t, State{}, state)
	db.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("key"))
	require.NoError(t, err)

	got, ok := TokenExpiry(signed)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))

	withoutExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
	}).SignedString([]byte("key"))
	require.NoError(t, err)

	_, ok = TokenExpiry(withoutExp)
	assert.False(t, ok)

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}
