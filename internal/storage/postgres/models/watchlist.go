package models

import (
	"context"

	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WatchlistModel struct {
	DB *pgxpool.Pool
}

// Insert relies on the (user_email, movie_id) primary key, so concurrent
// inserts of the same pair leave exactly one row.
func (m *WatchlistModel) Insert(ctx context.Context, email, movieID string) (*models.WatchlistEntry, error) {
	id, err := parseID(movieID)
	if err != nil {
		return nil, err
	}
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO watchlist (user_email, movie_id) VALUES ($1, $2)
		RETURNING user_email, movie_id::text AS movie_id, added_at`,
		email,
		id,
	)
	entry, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.WatchlistEntry])
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &entry, nil
}

func (m *WatchlistModel) Exists(ctx context.Context, email, movieID string) (bool, error) {
	id, err := parseID(movieID)
	if err != nil {
		return false, nil
	}
	var exists bool
	err = m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM watchlist WHERE user_email = $1 AND movie_id = $2)",
		email,
		id,
	).Scan(&exists)
	return exists, err
}

// ListByUser returns every stored entry for email, oldest first, including
// entries whose movie no longer exists.
func (m *WatchlistModel) ListByUser(ctx context.Context, email string) ([]models.WatchlistEntry, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT user_email, movie_id::text AS movie_id, added_at FROM watchlist
		WHERE user_email = $1
		ORDER BY added_at, movie_id`,
		email,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.WatchlistEntry])
}

func (m *WatchlistModel) Delete(ctx context.Context, email, movieID string) error {
	id, err := parseID(movieID)
	if err != nil {
		return err
	}
	status, err := m.DB.Exec(ctx, "DELETE FROM watchlist WHERE user_email = $1 AND movie_id = $2", email, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteByMovie removes the entries of every identity that reference movieID.
func (m *WatchlistModel) DeleteByMovie(ctx context.Context, movieID string) (int64, error) {
	id, err := parseID(movieID)
	if err != nil {
		return 0, nil
	}
	status, err := m.DB.Exec(ctx, "DELETE FROM watchlist WHERE movie_id = $1", id)
	if err != nil {
		return 0, err
	}
	return status.RowsAffected(), nil
}
