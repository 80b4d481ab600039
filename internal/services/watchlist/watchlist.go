package watchlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"
)

const sweepTimeout = 30 * time.Second

type EntriesStorage interface {
	Insert(ctx context.Context, email, movieID string) (*models.WatchlistEntry, error)
	Exists(ctx context.Context, email, movieID string) (bool, error)
	ListByUser(ctx context.Context, email string) ([]models.WatchlistEntry, error)
	Delete(ctx context.Context, email, movieID string) error
	DeleteByMovie(ctx context.Context, movieID string) (int64, error)
}

// Catalog is the lookup side of the movie store.
type Catalog interface {
	Get(ctx context.Context, id string) (*models.Movie, error)
	GetMany(ctx context.Context, ids []string) ([]models.Movie, error)
}

type TaskExecutor interface {
	Add(task func()) bool
}

type WatchlistService struct {
	log           *slog.Logger
	entries       EntriesStorage
	catalog       Catalog
	taskExecutor  TaskExecutor
	pruneDangling bool
}

// New builds the service. When pruneDangling is set, entries that reference a
// deleted movie are removed in the background via taskExecutor.
func New(
	log *slog.Logger,
	entries EntriesStorage,
	catalog Catalog,
	taskExecutor TaskExecutor,
	pruneDangling bool,
) *WatchlistService {
	return &WatchlistService{
		log:           log,
		entries:       entries,
		catalog:       catalog,
		taskExecutor:  taskExecutor,
		pruneDangling: pruneDangling && taskExecutor != nil,
	}
}

// Add links movieID to the identity. The movie must exist at the time of the
// call and the pair must not be present yet.
func (s *WatchlistService) Add(ctx context.Context, email, movieID string) (*models.WatchlistEntry, error) {
	const op = "watchlist.WatchlistService.Add"
	log := s.log.With("op", op, "email", email, "movie_id", movieID)

	if _, err := s.catalog.Get(ctx, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error("failed to look up movie", "errMsg", err.Error())
		return nil, err
	}

	exists, err := s.entries.Exists(ctx, email, movieID)
	if err != nil {
		log.Error("failed to check entry", "errMsg", err.Error())
		return nil, err
	}
	if exists {
		log.Info("duplicate entry")
		return nil, ErrDuplicateEntry
	}

	entry, err := s.entries.Insert(ctx, email, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("duplicate entry inserted concurrently")
			return nil, ErrDuplicateEntry
		}
		log.Error("failed to insert entry", "errMsg", err.Error())
		return nil, err
	}
	log.Info("movie added to watchlist")
	return entry, nil
}

// List returns the identity's movies, oldest entry first. Entries whose movie
// no longer exists are skipped.
func (s *WatchlistService) List(ctx context.Context, email string) ([]models.Movie, error) {
	const op = "watchlist.WatchlistService.List"
	log := s.log.With("op", op, "email", email)

	entries, err := s.entries.ListByUser(ctx, email)
	if err != nil {
		log.Error("failed to list entries", "errMsg", err.Error())
		return nil, err
	}
	if len(entries) == 0 {
		return []models.Movie{}, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.MovieID
	}
	found, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		log.Error("failed to fetch movies", "errMsg", err.Error())
		return nil, err
	}
	byID := make(map[string]models.Movie, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	movies := make([]models.Movie, 0, len(entries))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			movies = append(movies, m)
		}
	}
	if dangling := len(entries) - len(movies); dangling > 0 {
		log.Debug("skipped dangling entries", "count", dangling)
	}
	return movies, nil
}

func (s *WatchlistService) Remove(ctx context.Context, email, movieID string) error {
	const op = "watchlist.WatchlistService.Remove"
	log := s.log.With("op", op, "email", email, "movie_id", movieID)

	if err := s.entries.Delete(ctx, email, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("entry not found")
			return ErrEntryNotFound
		}
		log.Error("failed to delete entry", "errMsg", err.Error())
		return err
	}
	log.Info("movie removed from watchlist")
	return nil
}

// Sweep deletes every entry, of any identity, that references movieID.
func (s *WatchlistService) Sweep(ctx context.Context, movieID string) (int64, error) {
	const op = "watchlist.WatchlistService.Sweep"
	log := s.log.With("op", op, "movie_id", movieID)

	removed, err := s.entries.DeleteByMovie(ctx, movieID)
	if err != nil {
		log.Error("failed to sweep entries", "errMsg", err.Error())
		return 0, err
	}
	log.Info("swept dangling entries", "removed", removed)
	return removed, nil
}

// MovieDeleted queues a sweep for movieID when pruning is enabled.
func (s *WatchlistService) MovieDeleted(movieID string) {
	if !s.pruneDangling {
		return
	}
	s.taskExecutor.Add(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.Sweep(ctx, movieID)
	})
}
