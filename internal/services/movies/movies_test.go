package movies_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cinelist/proj/internal/domain/filters"
	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/lib/cache"
	"cinelist/proj/internal/services/movies"
	"cinelist/proj/internal/storage/badger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deleteRecorder struct {
	deleted []string
}

func (r *deleteRecorder) MovieDeleted(movieID string) {
	r.deleted = append(r.deleted, movieID)
}

func newTestService(t *testing.T, observers ...movies.DeleteObserver) *movies.MovieService {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := badger.Open("", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	searchCache, err := cache.NewSearchCache[[]models.Movie](16, time.Minute)
	require.NoError(t, err)
	return movies.New(log, db.Movies, searchCache, observers...)
}

func ptr[T any](v T) *T { return &v }

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	movie, err := svc.Create(ctx, movies.CreateParams{
		Title:      "Heat",
		Year:       "1995",
		Language:   "English",
		Genre:      []string{"crime"},
		DirectedBy: "Michael Mann",
	}, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, movie.ID)
	assert.Equal(t, "a@x.com", movie.AddedBy)
	assert.EqualValues(t, 1, movie.Version)

	got, err := svc.Get(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", got.Title)
	assert.Equal(t, "Michael Mann", got.DirectedBy)

	_, err = svc.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, movies.ErrMovieNotFound)
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	movie, err := svc.Create(ctx, movies.CreateParams{Title: "Heat", Year: "1995", Genre: []string{"crime"}}, "a@x.com")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, movie.ID, movies.UpdateParams{Year: ptr("1996")})
	require.NoError(t, err)
	assert.Equal(t, "Heat", updated.Title)
	assert.Equal(t, "1996", updated.Year)
	assert.Equal(t, []string{"crime"}, updated.Genre)
	assert.EqualValues(t, 2, updated.Version)

	updated, err = svc.Update(ctx, movie.ID, movies.UpdateParams{Genre: []string{"crime", "thriller"}, Title: ptr("Heat (1995)")})
	require.NoError(t, err)
	assert.Equal(t, "Heat (1995)", updated.Title)
	assert.Equal(t, []string{"crime", "thriller"}, updated.Genre)
	assert.EqualValues(t, 3, updated.Version)

	_, err = svc.Update(ctx, "missing", movies.UpdateParams{Title: ptr("x")})
	assert.ErrorIs(t, err, movies.ErrMovieNotFound)
}

func TestDeleteNotifiesObservers(t *testing.T) {
	recorder := &deleteRecorder{}
	svc := newTestService(t, recorder)
	ctx := context.Background()

	movie, err := svc.Create(ctx, movies.CreateParams{Title: "Heat"}, "a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, movie.ID))
	assert.Equal(t, []string{movie.ID}, recorder.deleted)

	assert.ErrorIs(t, svc.Delete(ctx, movie.ID), movies.ErrMovieNotFound)
	assert.Len(t, recorder.deleted, 1)

	_, err = svc.Get(ctx, movie.ID)
	assert.ErrorIs(t, err, movies.ErrMovieNotFound)
}

func TestList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, p := range []movies.CreateParams{
		{Title: "Alien", Language: "English", Genre: []string{"horror"}},
		{Title: "Amelie", Language: "French", Genre: []string{"comedy"}},
		{Title: "Arrival", Language: "English", Genre: []string{"sci-fi"}},
	} {
		_, err := svc.Create(ctx, p, "a@x.com")
		require.NoError(t, err)
	}

	f := filters.NewMovieFilters()
	f.Language = "English"
	list, err := svc.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alien", list[0].Title)
	assert.Equal(t, "Arrival", list[1].Title)

	f = filters.NewMovieFilters()
	f.Genre = "western"
	list, err = svc.List(ctx, f)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSearchCacheIsPurgedOnMutation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, movies.CreateParams{Title: "The Matrix", DirectedBy: "Wachowski"}, "a@x.com")
	require.NoError(t, err)

	found, err := svc.Search(ctx, "matrix", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)

	second, err := svc.Create(ctx, movies.CreateParams{Title: "Animatrix"}, "a@x.com")
	require.NoError(t, err)
	found, err = svc.Search(ctx, "MATRIX", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, svc.Delete(ctx, second.ID))
	found, err = svc.Search(ctx, "matrix", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "wachow", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

// searchHookStorage runs afterSearch once, after the stored result was read.
type searchHookStorage struct {
	movies.MoviesStorage
	afterSearch func()
}

func (s *searchHookStorage) Search(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	found, err := s.MoviesStorage.Search(ctx, query, limit)
	if hook := s.afterSearch; hook != nil {
		s.afterSearch = nil
		hook()
	}
	return found, err
}

func TestSearchResultLoadedBeforeMutationIsNotCached(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := badger.Open("", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	searchCache, err := cache.NewSearchCache[[]models.Movie](16, time.Minute)
	require.NoError(t, err)
	store := &searchHookStorage{MoviesStorage: db.Movies}
	svc := movies.New(log, store, searchCache)
	ctx := context.Background()

	_, err = svc.Create(ctx, movies.CreateParams{Title: "The Matrix"}, "a@x.com")
	require.NoError(t, err)

	store.afterSearch = func() {
		_, err := svc.Create(ctx, movies.CreateParams{Title: "Animatrix"}, "a@x.com")
		require.NoError(t, err)
	}
	found, err := svc.Search(ctx, "matrix", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, 0, searchCache.Len())

	found, err = svc.Search(ctx, "matrix", 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
