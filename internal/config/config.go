package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v9"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	GitSHA    string `env:"GIT_SHA" envDefault:"dev"`
	BuildTime string `env:"BUILD_TIME"`

	DBDriver               string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
	DBSQLitePath           string `env:"DB_SQLITE_PATH" envDefault:"data/gamification.db"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LeaderboardCacheTTL     time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"30s"`
	LeaderboardDefaultLimit int           `env:"LEADERBOARD_DEFAULT_LIMIT" envDefault:"10"`
	LeaderboardMaxLimit     int           `env:"LEADERBOARD_MAX_LIMIT" envDefault:"100"`

	// Badge code -> minimum cumulative points.
	BadgeThresholds map[string]int64 `env:"BADGE_THRESHOLDS" envDefault:"first-tier:100,second-tier:500,third-tier:1000,fourth-tier:2500"`
	// Action type -> default points awarded.
	ActionPoints map[string]int64 `env:"ACTION_POINTS" envDefault:"report-filed:10,report-resolved:25,collection-performed:15,sensor-alert-confirmed:5,challenge-completed:50"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath       string `env:"LOG_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"7"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBSQLitePath == "" {
			return errors.New("DB_SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMySQL, DriverPostgres:
		if c.DBUser == "" || c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_USER, DB_HOST and DB_NAME are required")
		}
	default:
		return errors.New("unsupported DB_DRIVER: " + c.DBDriver)
	}
	if c.LeaderboardDefaultLimit <= 0 || c.LeaderboardMaxLimit < c.LeaderboardDefaultLimit {
		return errors.New("leaderboard limits must satisfy 0 < default <= max")
	}
	for code, threshold := range c.BadgeThresholds {
		if threshold <= 0 {
			return errors.New("badge threshold must be positive: " + code)
		}
	}
	return nil
}
