package main

import (
	"context"
	"fmt"
	"log/slog"

	"cinelist/proj/internal/api/tasks"
	"cinelist/proj/internal/config"
	"cinelist/proj/internal/domain/models"
	"cinelist/proj/internal/lib/cache"
	"cinelist/proj/internal/lib/decoder"
	"cinelist/proj/internal/lib/hasher"
	"cinelist/proj/internal/lib/tokens"
	"cinelist/proj/internal/lib/validator"
	"cinelist/proj/internal/services/auth"
	"cinelist/proj/internal/services/movies"
	"cinelist/proj/internal/services/watchlist"
	badgerstore "cinelist/proj/internal/storage/badger"
	"cinelist/proj/internal/storage/postgres"
	pgmodels "cinelist/proj/internal/storage/postgres/models"

	govalidator "github.com/go-playground/validator/v10"
)

type catalogStorage interface {
	movies.MoviesStorage
	watchlist.Catalog
}

// Storage groups the record sets of whichever driver is configured.
type Storage struct {
	Users     auth.UsersStorage
	Movies    catalogStorage
	Watchlist watchlist.EntriesStorage
	closer    func() error
}

func (s *Storage) Close() error {
	return s.closer()
}

func OpenStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Storage, error) {
	const op = "main.OpenStorage"
	log = log.With("op", op, "driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverBadger:
		db, err := badgerstore.Open(cfg.Storage.Path, log)
		if err != nil {
			return nil, err
		}
		return &Storage{Users: db.Users, Movies: db.Movies, Watchlist: db.Watchlist, closer: db.Close}, nil
	case config.DriverPostgres:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB.Dsn, log); err != nil {
				return nil, err
			}
		}
		db, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("database connection established")
		m := pgmodels.New(db)
		return &Storage{Users: m.Users, Movies: m.Movies, Watchlist: m.Watchlist, closer: db.Close}, nil
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
}

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	auth      *auth.AuthService
	movies    *movies.MovieService
	watchlist *watchlist.WatchlistService
	bgTasks   *tasks.BackgroundTasks
	validator *govalidator.Validate
	decoder   *decoder.URLDecoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *Storage) (*Application, error) {
	bgTasks := tasks.New(log, cfg.Watchlist.Workers, cfg.Watchlist.QueueSize)
	searchCache, err := cache.NewSearchCache[[]models.Movie](cfg.Search.CacheSize, cfg.Search.CacheTTL)
	if err != nil {
		return nil, err
	}
	watchlistService := watchlist.New(log, storage.Watchlist, storage.Movies, bgTasks, cfg.Watchlist.PruneDangling)
	app := &Application{
		cfg: cfg,
		log: log,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
		auth: auth.New(
			log,
			storage.Users,
			hasher.New(cfg.Auth.BcryptCost),
			tokens.New(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		),
		movies:    movies.New(log, storage.Movies, searchCache, watchlistService),
		watchlist: watchlistService,
		bgTasks:   bgTasks,
		validator: validator.New(),
		decoder:   decoder.New(),
	}
	return app, nil
}
