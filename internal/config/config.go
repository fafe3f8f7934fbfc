// Package config loads the bot's environment-derived configuration.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the whole configuration surface of the process. Everything comes
// from the environment; there are no runtime flags.
type Config struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_DATABASE" envDefault:"asheddb"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns int    `env:"DB_CONNECTION_LIMIT" envDefault:"10"`

	UserBotToken  string `env:"USER_API_KEY,required"`
	AdminBotToken string `env:"ADMIN_API_KEY,required"`
	AdminChatID   int64  `env:"ADMIN_CHAT_ID,required"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	PollTimeout  time.Duration `env:"POLL_TIMEOUT" envDefault:"30s"`
	IdleDelay    time.Duration `env:"IDLE_DELAY" envDefault:"1s"`
	ErrorBackoff time.Duration `env:"ERROR_BACKOFF" envDefault:"5s"`
	RestartDelay time.Duration `env:"WORKER_RESTART_DELAY" envDefault:"5s"`
}

// Load reads .env if one is present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN builds the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
