// Package badger is an embedded storage driver. Records are JSON documents
// under prefixed keys, and every conditional write runs in one transaction.
package badger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"cinelist/proj/internal/lib/logger"
	"cinelist/proj/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

type Storage struct {
	db  *badger.DB
	log *slog.Logger

	Movies    *MovieStore
	Users     *UserStore
	Watchlist *WatchlistStore
}

// Open opens the database at path. An empty path keeps everything in memory.
func Open(path string, log *slog.Logger) (*Storage, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	opts = opts.WithLogger(logger.PrintfAdapter{Log: log.With("component", "badger")}).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	s := &Storage{db: db, log: log}
	s.Movies = &MovieStore{db: db}
	s.Users = &UserStore{db: db}
	s.Watchlist = &WatchlistStore{db: db}

	log.Info("badger database opened", "path", path, "in_memory", path == "")
	return s, nil
}

func (s *Storage) Close() error {
	s.log.Info("closing badger database")
	return s.db.Close()
}

func get(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func set(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// update runs fn in a read-write transaction. A commit that lost a race
// with a concurrent writer is reported as storage.ErrConflict.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	err := db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return storage.ErrConflict
	}
	return err
}

// scan calls fn for every value stored under prefix, in key order. fn returns
// false to stop early.
func scan(txn *badger.Txn, prefix []byte, fn func(key, val []byte) (bool, error)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		more, err := fn(item.KeyCopy(nil), val)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}
