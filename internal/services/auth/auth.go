package auth

import (
	"context"
	"errors"
	"log/slog"

	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/storage"
)

const TokenType = "bearer"

type UsersStorage interface {
	Insert(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type TokenProvider interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

type AuthService struct {
	log     *slog.Logger
	storage UsersStorage
	hasher  PasswordHasher
	tokens  TokenProvider
}

func New(log *slog.Logger, storage UsersStorage, hasher PasswordHasher, tokens TokenProvider) *AuthService {
	return &AuthService{
		log:     log,
		storage: storage,
		hasher:  hasher,
		tokens:  tokens,
	}
}

// Register creates an identity keyed by the exact email given.
func (a *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	const op = "auth.AuthService.Register"
	log := a.log.With("op", op, "email", email)

	if _, err := a.storage.GetByEmail(ctx, email); err == nil {
		log.Info("user already exists")
		return nil, ErrIdentityExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error("failed to look up user", "errMsg", err.Error())
		return nil, err
	}

	digest, err := a.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "errMsg", err.Error())
		return nil, err
	}
	user, err := a.storage.Insert(ctx, email, digest)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user registered concurrently")
			return nil, ErrIdentityExists
		}
		log.Error("failed to insert user", "errMsg", err.Error())
		return nil, err
	}
	log.Info("user registered")
	return user, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthToken, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)

	user, err := a.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("login failed")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user", "errMsg", err.Error())
		return nil, err
	}
	if !a.hasher.Verify(password, user.PasswordHash) {
		log.Info("login failed")
		return nil, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.Email)
	if err != nil {
		log.Error("failed to issue token", "errMsg", err.Error())
		return nil, err
	}
	return &models.AuthToken{AccessToken: token, TokenType: TokenType}, nil
}

// Identify resolves a bearer token to the identity it was issued for without
// consulting the store. Every verification failure is reported as
// ErrInvalidToken wrapping the specific token error.
func (a *AuthService) Identify(token string) (*models.User, error) {
	const op = "auth.AuthService.Identify"

	email, err := a.tokens.Verify(token)
	if err != nil {
		a.log.Debug("token rejected", "op", op, "reason", err.Error())
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return &models.User{Email: email}, nil
}

