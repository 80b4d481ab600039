package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

type Config struct {
	Debug     bool      `yaml:"debug" env:"DEBUG"`
	Limiter   Limiter   `yaml:"limiter"`
	Auth      Auth      `yaml:"auth"`
	Server    Server    `yaml:"server"`
	Storage   Storage   `yaml:"storage"`
	DB        DB        `yaml:"db"`
	CORS      CORS      `yaml:"cors"`
	Watchlist Watchlist `yaml:"watchlist"`
	Search    Search    `yaml:"search"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env:"LIMITER_RPS" env-default:"20"`
	Burst   int     `yaml:"burst" env:"LIMITER_BURST" env-default:"5"`
}

type Auth struct {
	Secret     string        `yaml:"secret" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"1h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
	Host string `yaml:"host" env:"HOST" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	// Path is the badger data directory. Empty keeps the data in memory.
	Path string `yaml:"path" env:"STORAGE_PATH"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	Migrate         bool          `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type Watchlist struct {
	PruneDangling bool `yaml:"prune_dangling" env:"WATCHLIST_PRUNE_DANGLING"`
	Workers       int  `yaml:"workers" env-default:"2"`
	QueueSize     int  `yaml:"queue_size" env-default:"100"`
}

type Search struct {
	CacheSize int           `yaml:"cache_size" env-default:"256"`
	CacheTTL  time.Duration `yaml:"cache_ttl" env-default:"1m"`
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DB.Dsn == "" {
			return fmt.Errorf("db.dsn is required for the %s storage driver", DriverPostgres)
		}
	case DriverBadger:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Watchlist.Workers < 1 {
		return fmt.Errorf("watchlist.workers must be at least 1")
	}
	if c.Search.CacheSize < 1 {
		return fmt.Errorf("search.cache_size must be at least 1")
	}
	return nil
}

// Load reads the YAML file at configPath (when given) and overlays the environment.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
