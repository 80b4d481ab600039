package models

import (
	"context"
	"errors"

	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) Insert(ctx context.Context, email, passwordHash string) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING email, password_hash, created_at",
		email,
		passwordHash,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT email, password_hash, created_at FROM users WHERE email = $1",
		email,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
