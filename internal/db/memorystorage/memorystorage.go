package memorystorage

import (
	"github.com/patric-chuzhbe/linkdash/internal/db/jsondb"
)

// MemoryStorage is a JSONDB without a backing file. Sessions kept in it
// last for the lifetime of the process.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{
				Entries: map[string]string{},
			},
		},
	}, nil
}
