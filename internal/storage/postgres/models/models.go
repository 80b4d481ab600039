package models

import (
	"errors"

	"cinelist/proj/internal/storage"
	"cinelist/proj/internal/storage/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type Models struct {
	Movies    *MovieModel
	Users     *UserModel
	Watchlist *WatchlistModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Movies:    &MovieModel{db.Conn},
		Users:     &UserModel{db.Conn},
		Watchlist: &WatchlistModel{db.Conn},
	}
}

func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	return errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode
}

// parseID turns a textual movie id into a uuid. Ids that can never exist in
// the store are reported as not found.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, storage.ErrNotFound
	}
	return parsed, nil
}
