package session

import (
	"context"
	"encoding/json"

	"github.com/patric-chuzhbe/linkdash/internal/logger"
	"github.com/patric-chuzhbe/linkdash/internal/user"
)

// Hydrate restores a persisted session into store. Both the token and a
// decodable user record must be present; otherwise the persisted entries
// are erased and the store stays logged out. Nothing here is reported to
// the user.
func Hydrate(ctx context.Context, store *Store) State {
	token, tokenFound, err := store.db.Get(ctx, TokenKey)
	if err != nil {
		logger.Log.Debugln("unable to read persisted token", "error", err)
		return store.Snapshot()
	}

	userJSON, userFound, err := store.db.Get(ctx, UserKey)
	if err != nil {
		logger.Log.Debugln("unable to read persisted user", "error", err)
		return store.Snapshot()
	}

	if !tokenFound && !userFound {
		return store.Snapshot()
	}

	var usr user.User
	if token == "" || !userFound || json.Unmarshal([]byte(userJSON), &usr) != nil || usr.IsZero() {
		logger.Log.Debugln("discarding malformed persisted session")
		if err := store.db.Remove(ctx, TokenKey, UserKey); err != nil {
			logger.Log.Debugln("unable to erase malformed session", "error", err)
		}
		return store.Snapshot()
	}

	return store.Dispatch(ctx, LoginSuccess{User: usr, Token: token})
}
