package models

import (
	"context"
	"errors"
	"strings"

	"cinelist/proj/internal/domain/filters"
	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieColumns = `id::text AS id, title, year, imdb, movie, trailer, poster, description,
	language, genre, directed_by, added_by, version, created_at`

type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) Get(ctx context.Context, id string) (*models.Movie, error) {
	movieID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = $1", movieID)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

// GetMany returns the movies that exist among ids, in no particular order.
func (m *MovieModel) GetMany(ctx context.Context, ids []string) ([]models.Movie, error) {
	movieIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := parseID(id); err == nil {
			movieIDs = append(movieIDs, parsed)
		}
	}
	if len(movieIDs) == 0 {
		return []models.Movie{}, nil
	}
	rows, _ := m.DB.Query(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ANY($1)", movieIDs)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO movies (title, year, imdb, movie, trailer, poster, description, language, genre, directed_by, added_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+movieColumns,
		movie.Title,
		movie.Year,
		movie.Imdb,
		movie.Movie,
		movie.Trailer,
		movie.Poster,
		movie.Description,
		movie.Language,
		movie.Genre,
		movie.DirectedBy,
		movie.AddedBy,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &inserted, nil
}

func (m *MovieModel) List(ctx context.Context, f filters.MovieFilters) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies
		WHERE ($1 = '' OR genre @> ARRAY[$1::text])
		AND ($2 = '' OR language = $2)
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4`,
		f.Genre,
		f.Language,
		f.Limit,
		f.Offset(),
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

// Search matches query as a case-insensitive literal substring of the title,
// description or director.
func (m *MovieModel) Search(ctx context.Context, query string, limit int) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies
		WHERE title ILIKE $1 OR description ILIKE $1 OR directed_by ILIKE $1
		ORDER BY created_at, id
		LIMIT $2`,
		"%"+escapeLike(query)+"%",
		limit,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

func (m *MovieModel) Update(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	movieID, err := parseID(movie.ID)
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE movies SET version = version + 1, title = $1, year = $2, imdb = $3, movie = $4, trailer = $5,
		poster = $6, description = $7, language = $8, genre = $9, directed_by = $10
		WHERE id = $11 AND version = $12
		RETURNING `+movieColumns,
		movie.Title,
		movie.Year,
		movie.Imdb,
		movie.Movie,
		movie.Trailer,
		movie.Poster,
		movie.Description,
		movie.Language,
		movie.Genre,
		movie.DirectedBy,
		movieID,
		movie.Version,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrEditConflict
		}
		return nil, err
	}
	return &updated, nil
}

func (m *MovieModel) Delete(ctx context.Context, id string) error {
	movieID, err := parseID(id)
	if err != nil {
		return err
	}
	status, err := m.DB.Exec(ctx, "DELETE FROM movies WHERE id = $1", movieID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
