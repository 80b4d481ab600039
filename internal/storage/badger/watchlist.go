package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

const (
	watchlistPrefix        = "watchlist:"
	watchlistByMoviePrefix = "idx:watchlist:movie:" // For pruning entries of a deleted movie
	keySep                 = "\x00"
)

type WatchlistStore struct {
	db *badger.DB
}

type entryDoc struct {
	AddedAt time.Time `json:"added_at"`
}

func entryKey(email, movieID string) []byte {
	return []byte(watchlistPrefix + email + keySep + movieID)
}

func userEntriesPrefix(email string) []byte {
	return []byte(watchlistPrefix + email + keySep)
}

func movieIndexKey(movieID, email string) []byte {
	return []byte(watchlistByMoviePrefix + movieID + keySep + email)
}

func movieIndexPrefix(movieID string) []byte {
	return []byte(watchlistByMoviePrefix + movieID + keySep)
}

// Insert stores the (email, movieID) pair unless it is already present.
// Concurrent inserts of the same pair commit at most once.
func (s *WatchlistStore) Insert(_ context.Context, email, movieID string) (*models.WatchlistEntry, error) {
	entry := &models.WatchlistEntry{UserEmail: email, MovieID: movieID, AddedAt: time.Now().UTC()}
	err := update(s.db, func(txn *badger.Txn) error {
		found, err := exists(txn, entryKey(email, movieID))
		if err != nil {
			return err
		}
		if found {
			return storage.ErrConflict
		}
		if err := set(txn, entryKey(email, movieID), entryDoc{AddedAt: entry.AddedAt}); err != nil {
			return err
		}
		return txn.Set(movieIndexKey(movieID, email), nil)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *WatchlistStore) Exists(_ context.Context, email, movieID string) (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = exists(txn, entryKey(email, movieID))
		return err
	})
	return found, err
}

// ListByUser returns every stored entry for email, oldest first, including
// entries whose movie no longer exists.
func (s *WatchlistStore) ListByUser(_ context.Context, email string) ([]models.WatchlistEntry, error) {
	prefix := userEntriesPrefix(email)
	entries := make([]models.WatchlistEntry, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, prefix, func(key, val []byte) (bool, error) {
			var doc entryDoc
			if err := json.Unmarshal(val, &doc); err != nil {
				return false, err
			}
			entries = append(entries, models.WatchlistEntry{
				UserEmail: email,
				MovieID:   string(bytes.TrimPrefix(key, prefix)),
				AddedAt:   doc.AddedAt,
			})
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(entries, func(a, b models.WatchlistEntry) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}
		return strings.Compare(a.MovieID, b.MovieID)
	})
	return entries, nil
}

func (s *WatchlistStore) Delete(_ context.Context, email, movieID string) error {
	return update(s.db, func(txn *badger.Txn) error {
		found, err := exists(txn, entryKey(email, movieID))
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		if err := txn.Delete(entryKey(email, movieID)); err != nil {
			return err
		}
		return txn.Delete(movieIndexKey(movieID, email))
	})
}

// DeleteByMovie removes the entries of every identity that reference movieID.
func (s *WatchlistStore) DeleteByMovie(_ context.Context, movieID string) (int64, error) {
	var removed int64
	err := update(s.db, func(txn *badger.Txn) error {
		prefix := movieIndexPrefix(movieID)
		var emails []string
		err := scan(txn, prefix, func(key, _ []byte) (bool, error) {
			emails = append(emails, string(bytes.TrimPrefix(key, prefix)))
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, email := range emails {
			if err := txn.Delete(entryKey(email, movieID)); err != nil {
				return err
			}
			if err := txn.Delete(movieIndexKey(movieID, email)); err != nil {
				return err
			}
		}
		removed = int64(len(emails))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
