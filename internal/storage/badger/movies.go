package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinelist/proj/internal/domain/filters"
	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const moviePrefix = "movie:"

type MovieStore struct {
	db *badger.DB
}

// movieDoc is the stored form of a movie. It keeps the fields the public
// JSON representation hides.
type movieDoc struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Year        string    `json:"year"`
	Imdb        string    `json:"imdb"`
	Movie       string    `json:"movie"`
	Trailer     string    `json:"trailer"`
	Poster      string    `json:"poster"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Genre       []string  `json:"genre"`
	DirectedBy  string    `json:"directed_by"`
	AddedBy     string    `json:"added_by"`
	Version     uint      `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDoc(m *models.Movie) movieDoc {
	return movieDoc{
		ID:          m.ID,
		Title:       m.Title,
		Year:        m.Year,
		Imdb:        m.Imdb,
		Movie:       m.Movie,
		Trailer:     m.Trailer,
		Poster:      m.Poster,
		Description: m.Description,
		Language:    m.Language,
		Genre:       m.Genre,
		DirectedBy:  m.DirectedBy,
		AddedBy:     m.AddedBy,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
	}
}

func (d movieDoc) toModel() models.Movie {
	genre := d.Genre
	if genre == nil {
		genre = []string{}
	}
	return models.Movie{
		ID:          d.ID,
		Title:       d.Title,
		Year:        d.Year,
		Imdb:        d.Imdb,
		Movie:       d.Movie,
		Trailer:     d.Trailer,
		Poster:      d.Poster,
		Description: d.Description,
		Language:    d.Language,
		Genre:       genre,
		DirectedBy:  d.DirectedBy,
		AddedBy:     d.AddedBy,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
	}
}

func movieKey(id string) []byte {
	return []byte(moviePrefix + id)
}

func (s *MovieStore) Get(_ context.Context, id string) (*models.Movie, error) {
	var doc movieDoc
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, movieKey(id), &doc)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	movie := doc.toModel()
	return &movie, nil
}

// GetMany returns the movies that exist among ids, in no particular order.
func (s *MovieStore) GetMany(_ context.Context, ids []string) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var doc movieDoc
			if err := get(txn, movieKey(id), &doc); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			movies = append(movies, doc.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// Insert assigns a time-ordered id, so key order is creation order.
func (s *MovieStore) Insert(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate movie id: %w", err)
	}
	doc := toDoc(movie)
	doc.ID = id.String()
	doc.Version = 1
	doc.CreatedAt = time.Now().UTC()

	err = update(s.db, func(txn *badger.Txn) error {
		found, err := exists(txn, movieKey(doc.ID))
		if err != nil {
			return err
		}
		if found {
			return storage.ErrConflict
		}
		return set(txn, movieKey(doc.ID), doc)
	})
	if err != nil {
		return nil, err
	}
	inserted := doc.toModel()
	return &inserted, nil
}

func (s *MovieStore) List(_ context.Context, f filters.MovieFilters) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, f.Limit)
	skipped := 0
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(moviePrefix), func(_, val []byte) (bool, error) {
			var doc movieDoc
			if err := json.Unmarshal(val, &doc); err != nil {
				return false, err
			}
			if !f.Matches(doc.Language, doc.Genre) {
				return true, nil
			}
			if skipped < f.Offset() {
				skipped++
				return true, nil
			}
			movies = append(movies, doc.toModel())
			return len(movies) < f.Limit, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// Search matches query as a case-insensitive literal substring of the title,
// description or director.
func (s *MovieStore) Search(_ context.Context, query string, limit int) ([]models.Movie, error) {
	needle := strings.ToLower(query)
	movies := make([]models.Movie, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, []byte(moviePrefix), func(_, val []byte) (bool, error) {
			var doc movieDoc
			if err := json.Unmarshal(val, &doc); err != nil {
				return false, err
			}
			if containsFold(doc.Title, needle) || containsFold(doc.Description, needle) || containsFold(doc.DirectedBy, needle) {
				movies = append(movies, doc.toModel())
			}
			return len(movies) < limit, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// Update replaces the editable fields when movie.Version matches the stored
// version. A missing record or a stale version yields storage.ErrEditConflict.
func (s *MovieStore) Update(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	var updated movieDoc
	err := update(s.db, func(txn *badger.Txn) error {
		var stored movieDoc
		if err := get(txn, movieKey(movie.ID), &stored); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrEditConflict
			}
			return err
		}
		if stored.Version != movie.Version {
			return storage.ErrEditConflict
		}
		updated = toDoc(movie)
		updated.AddedBy = stored.AddedBy
		updated.CreatedAt = stored.CreatedAt
		updated.Version = stored.Version + 1
		return set(txn, movieKey(movie.ID), updated)
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, storage.ErrEditConflict
		}
		return nil, err
	}
	result := updated.toModel()
	return &result, nil
}

// Delete removes only the movie. Watchlist entries pointing at it are left in place.
func (s *MovieStore) Delete(_ context.Context, id string) error {
	return update(s.db, func(txn *badger.Txn) error {
		found, err := exists(txn, movieKey(id))
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		return txn.Delete(movieKey(id))
	})
}
