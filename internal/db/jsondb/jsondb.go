// Package jsondb keeps session entries in a JSON file, rewriting the file on
// every change so a crash never loses a completed login or logout.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/patric-chuzhbe/linkdash/internal/db/storage"
	"github.com/patric-chuzhbe/linkdash/internal/logger"
)

type JSONDB struct {
	mu       sync.RWMutex
	fileName string
	closed   bool
	Cache    CacheStruct
}

type CacheStruct struct {
	Entries map[string]string
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Entries": {}
}`)
	if err != nil {
		_ = dbFile.Close()
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	tmpName := fileName + ".tmp"
	if err := os.WriteFile(tmpName, jsonData, 0600); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	if err := os.Rename(tmpName, fileName); err != nil {
		return fmt.Errorf("error replacing file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

// New opens the session file, creating it when missing. A file that cannot
// be decoded is replaced by an empty one: broken session state is treated
// as absent.
func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Debugln("discarding unreadable session file", "file", fileName, "error", err)
		}
		if err := os.MkdirAll(filepath.Dir(fileName), 0700); err != nil {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		db.Cache = CacheStruct{}
		if err := parseJSONFile(db.fileName, &db.Cache); err != nil {
			return nil, err
		}
	}

	if db.Cache.Entries == nil {
		db.Cache.Entries = map[string]string{}
	}

	return db, nil
}

func (db *JSONDB) flush() error {
	if db.fileName == "" {
		return nil
	}

	return writeToJSONFile(db.fileName, db.Cache)
}

func (db *JSONDB) Get(ctx context.Context, key string) (string, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return "", false, storage.ErrClosed
	}

	value, found := db.Cache.Entries[key]

	return value, found, nil
}

func (db *JSONDB) Set(ctx context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return storage.ErrClosed
	}

	db.Cache.Entries[key] = value

	return db.flush()
}

func (db *JSONDB) Remove(ctx context.Context, keys ...string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return storage.ErrClosed
	}

	for _, key := range keys {
		delete(db.Cache.Entries, key)
	}

	return db.flush()
}

func (db *JSONDB) Ping(ctx context.Context) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return storage.ErrClosed
	}

	return nil
}

func (db *JSONDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true

	return db.flush()
}
