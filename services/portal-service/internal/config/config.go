package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/event"
	"github.com/raushkum4590/job-portal-sub000/shared/database"
	"github.com/raushkum4590/job-portal-sub000/shared/provider"
)

// PortalServiceConfig holds the configuration for the portal service.
type PortalServiceConfig struct {
	Port                string        `env:"PORT"                   envDefault:"8080"`
	Environment         string        `env:"ENVIRONMENT"            envDefault:"development"`
	LogLevel            string        `env:"LOG_LEVEL"              envDefault:"info"`
	AppURL              string        `env:"APP_URL"                envDefault:"http://localhost:3000"`
	AppPasswordResetURL string        `env:"APP_PASSWORD_RESET_URL"`
	CORSAllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS"   envDefault:"http://localhost:3000" envSeparator:","`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"        envDefault:"30s"`
	CookieSecret        string        `env:"COOKIE_SECRET,required,notEmpty"`
	SentryDSN           string        `env:"SENTRY_DSN"`
	RedisURL            string        `env:"REDIS_URL"`
	ExpirySchedule      string        `env:"EXPIRY_SCHEDULE"        envDefault:"@every 1h"`

	Token  TokenConfig
	Mongo  database.MongoConfig
	Google provider.GoogleConfig
	Events event.BusConfig
	Stream event.StreamConfig
}

// TokenConfig holds the signing settings for session and password reset tokens.
type TokenConfig struct {
	Issuer                      string        `env:"TOKEN_ISSUER"                    envDefault:"job-portal"`
	Audience                    string        `env:"TOKEN_AUDIENCE"                  envDefault:"job-portal-web"`
	SessionTokenSecret          string        `env:"SESSION_TOKEN_SECRET,required,notEmpty"`
	SessionTokenExpiresIn       time.Duration `env:"SESSION_TOKEN_EXPIRES_IN"        envDefault:"720h"`
	PasswordResetTokenSecret    string        `env:"PASSWORD_RESET_TOKEN_SECRET,required,notEmpty"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"15m"`
}

// NewPortalServiceConfig loads an optional .env file and parses the environment.
func NewPortalServiceConfig() (*PortalServiceConfig, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[PortalServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.AppPasswordResetURL == "" {
		cfg.AppPasswordResetURL = strings.TrimRight(cfg.AppURL, "/") + "/reset-password"
	}

	return &cfg, nil
}

// Production reports whether the service runs with production cookies.
func (c *PortalServiceConfig) Production() bool {
	return c.Environment == "production"
}

func (c *PortalServiceConfig) validate() error {
	if len(c.CookieSecret) < 32 {
		return fmt.Errorf("COOKIE_SECRET must be at least 32 bytes")
	}
	if c.Token.SessionTokenSecret == c.Token.PasswordResetTokenSecret {
		return fmt.Errorf("SESSION_TOKEN_SECRET and PASSWORD_RESET_TOKEN_SECRET must differ")
	}
	if c.Token.SessionTokenExpiresIn <= 0 || c.Token.PasswordResetTokenExpiresIn <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	return nil
}
