package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" env-default:"8080"`
	GinMode string `env:"GIN_MODE" env-default:"release"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" env-default:"localhost"`
	DBUser      string `env:"DB_USER" env-default:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" env-default:"postboard"`
	DBPort      string `env:"DB_PORT" env-default:"5432"`

	JWTSecret     string        `env:"JWT_SECRET" env-required:"true"`
	JWTAccessTTL  time.Duration `env:"JWT_ACCESS_TTL" env-default:"24h"`
	JWTRefreshTTL time.Duration `env:"JWT_REFRESH_TTL" env-default:"720h"`

	RedisAddr    string        `env:"REDIS_ADDR"`
	LikeCacheTTL time.Duration `env:"LIKE_CACHE_TTL" env-default:"5m"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" env-default:"postboard"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &cfg, nil
}

// DSN prefers DATABASE_URL and falls back to the DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
