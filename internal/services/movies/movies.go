package movies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cinelist/proj/internal/domain/filters"
	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"
)

type MoviesStorage interface {
	Get(ctx context.Context, id string) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	List(ctx context.Context, f filters.MovieFilters) ([]models.Movie, error)
	Search(ctx context.Context, query string, limit int) ([]models.Movie, error)
	Update(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Delete(ctx context.Context, id string) error
}

type SearchCache interface {
	Get(key string) ([]models.Movie, bool)
	Generation() uint64
	Set(key string, value []models.Movie, gen uint64) bool
	Purge()
}

// DeleteObserver is notified after a movie has been removed from the catalog.
type DeleteObserver interface {
	MovieDeleted(movieID string)
}

type MovieService struct {
	log       *slog.Logger
	storage   MoviesStorage
	cache     SearchCache
	observers []DeleteObserver
}

func New(log *slog.Logger, storage MoviesStorage, cache SearchCache, observers ...DeleteObserver) *MovieService {
	return &MovieService{
		log:       log,
		storage:   storage,
		cache:     cache,
		observers: observers,
	}
}

// CreateParams holds the catalog fields a client may set.
type CreateParams struct {
	Title       string
	Year        string
	Imdb        string
	Movie       string
	Trailer     string
	Poster      string
	Description string
	Language    string
	Genre       []string
	DirectedBy  string
}

// UpdateParams holds a partial update. Nil fields keep their stored value.
type UpdateParams struct {
	Title       *string
	Year        *string
	Imdb        *string
	Movie       *string
	Trailer     *string
	Poster      *string
	Description *string
	Language    *string
	Genre       []string
	DirectedBy  *string
}

func (s *MovieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, params CreateParams, addedBy string) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", params.Title, "added_by", addedBy)
	movie, err := s.storage.Insert(ctx, &models.Movie{
		Title:       params.Title,
		Year:        params.Year,
		Imdb:        params.Imdb,
		Movie:       params.Movie,
		Trailer:     params.Trailer,
		Poster:      params.Poster,
		Description: params.Description,
		Language:    params.Language,
		Genre:       params.Genre,
		DirectedBy:  params.DirectedBy,
		AddedBy:     addedBy,
	})
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	s.cache.Purge()
	log.Info("movie created", "id", movie.ID)
	return movie, nil
}

func (s *MovieService) List(ctx context.Context, f filters.MovieFilters) ([]models.Movie, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op)
	movies, err := s.storage.List(ctx, f)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}

func (s *MovieService) Update(ctx context.Context, id string, params UpdateParams) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	setIfPresent(&movie.Title, params.Title)
	setIfPresent(&movie.Year, params.Year)
	setIfPresent(&movie.Imdb, params.Imdb)
	setIfPresent(&movie.Movie, params.Movie)
	setIfPresent(&movie.Trailer, params.Trailer)
	setIfPresent(&movie.Poster, params.Poster)
	setIfPresent(&movie.Description, params.Description)
	setIfPresent(&movie.Language, params.Language)
	setIfPresent(&movie.DirectedBy, params.DirectedBy)
	if params.Genre != nil {
		movie.Genre = params.Genre
	}

	updatedMovie, err := s.storage.Update(ctx, movie)
	if err != nil {
		if errors.Is(err, storage.ErrEditConflict) {
			log.Info("edit conflict", "version", movie.Version)
			return nil, ErrEditConflict
		}
		log.Error("Error updating movie: " + err.Error())
		return nil, err
	}
	s.cache.Purge()
	return updatedMovie, nil
}

func setIfPresent(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

// Delete removes the movie only. Watchlist entries referencing it are left
// to the observers.
func (s *MovieService) Delete(ctx context.Context, id string) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	s.cache.Purge()
	for _, o := range s.observers {
		o.MovieDeleted(id)
	}
	log.Info("movie deleted")
	return nil
}

// Search returns movies whose title, description or director contain query,
// ignoring case.
func (s *MovieService) Search(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	const op = "movies.MovieService.Search"
	log := s.log.With("op", op, "query", query, "limit", limit)

	key := fmt.Sprintf("%d:%s", limit, strings.ToLower(query))
	if movies, ok := s.cache.Get(key); ok {
		log.Debug("search cache hit")
		return movies, nil
	}
	gen := s.cache.Generation()
	movies, err := s.storage.Search(ctx, query, limit)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if !s.cache.Set(key, movies, gen) {
		log.Debug("catalog changed during search, result not cached")
	}
	return movies, nil
}
