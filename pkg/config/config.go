package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	Env              string `env:"ENV" envDefault:"development"`
	HTTPPort         int    `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`

	JWT    JWTConfig
	OTP    OTPConfig
	Stytch StytchConfig

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"scoreboard-events"`
}

type JWTConfig struct {
	Secret      string        `env:"JWT_SECRET"`
	TokenExpiry time.Duration `env:"JWT_TOKEN_EXPIRY" envDefault:"720h"`
}

type OTPConfig struct {
	CodeExpiry        time.Duration `env:"OTP_CODE_EXPIRY"         envDefault:"10m"`
	SessionTTL        time.Duration `env:"OTP_SESSION_TTL"         envDefault:"15m"`
	AttemptWindow     time.Duration `env:"OTP_ATTEMPT_WINDOW"      envDefault:"15m"`
	MaxAttempts       int           `env:"OTP_MAX_ATTEMPTS"        envDefault:"3"`
	SpectatorCookieTTL time.Duration `env:"SPECTATOR_COOKIE_TTL"   envDefault:"168h"`
}

type StytchConfig struct {
	BaseURL       string        `env:"STYTCH_BASE_URL" envDefault:"https://api.stytch.com"`
	ProjectID     string        `env:"STYTCH_PROJECT_ID"`
	Secret        string        `env:"STYTCH_SECRET"`
	Timeout       time.Duration `env:"STYTCH_TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"STYTCH_RETRY_ATTEMPTS" envDefault:"3"`
}

// IsProduction controls the Secure flag on issued cookies.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
