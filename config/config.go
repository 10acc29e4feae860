package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// DBType selects the gorm driver: "postgres" or "sqlite".
	DBType      string `env:"DB_TYPE" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"postgresql://postgres@localhost:5432/timesheets"`
	DBPath      string `env:"DB_PATH" envDefault:"datas/timesheets.db"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"1440"`

	// Notification settings. When ResendAPIKey is empty, notifications are
	// disabled and mutations proceed without the email side effect.
	ResendAPIKey  string `env:"RESEND_API_KEY" envDefault:""`
	NotifyFrom    string `env:"NOTIFY_FROM" envDefault:"Timesheets <timesheets@localhost>"`
	NotifyAdminTo string `env:"ADMIN_NOTIFICATION_EMAIL" envDefault:"admin@localhost"`

	SeedSampleData bool `env:"SEED_SAMPLE_DATA" envDefault:"false"`
}

func (c Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationMinutes) * time.Minute
}

func Load() (Config, error) {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		logrus.WithError(err).Error("failed to parse environment config")
		return Config{}, err
	}
	return cfg, nil
}
