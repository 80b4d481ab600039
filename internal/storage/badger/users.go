package badger

import (
	"context"
	"errors"
	"time"

	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

const userPrefix = "user:"

type UserStore struct {
	db *badger.DB
}

func userKey(email string) []byte {
	return []byte(userPrefix + email)
}

func (s *UserStore) Insert(_ context.Context, email, passwordHash string) (*models.User, error) {
	user := &models.User{Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	err := update(s.db, func(txn *badger.Txn) error {
		found, err := exists(txn, userKey(email))
		if err != nil {
			return err
		}
		if found {
			return storage.ErrConflict
		}
		return set(txn, userKey(email), user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, userKey(email), &user)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
