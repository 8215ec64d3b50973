// Package config reads benchmark settings from the environment and optional
// .env files. CLI flags are layered on top by the caller.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	passwordVar = "DB_PASSWORD"
)

var DefaultEnvFiles = []string{".env", ".env.local"}

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrIterations    = errors.New("iterations must be at least 1")
	ErrPort          = errors.New("port must be between 0 and 65535")
	ErrOutput        = errors.New("output path must not be empty")
)

type Config struct {
	Driver         string        `env:"BENCH_DB" envDefault:"mysql"`
	Host           string        `env:"DB_HOST" envDefault:"localhost"`
	Port           int           `env:"DB_PORT" envDefault:"0"`
	User           string        `env:"DB_USER" envDefault:"root"`
	Password       string        `env:"DB_PASSWORD"`
	Database       string        `env:"DB_NAME" envDefault:"ecommerce_demo"`
	Iterations     int           `env:"BENCH_ITERATIONS" envDefault:"3"`
	Output         string        `env:"BENCH_OUTPUT" envDefault:"benchmark_report.html"`
	QueriesFile    string        `env:"BENCH_QUERIES"`
	MetricsFile    string        `env:"BENCH_METRICS_FILE"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`

	// PasswordSet is true once a password came from the environment or a
	// flag, even an empty one.
	PasswordSet bool `env:"-"`
}

// LoadEnv loads whichever of envFiles exist and reports how many did.
// Variables already present in the environment win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load(envFiles []string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	_, c.PasswordSet = os.LookupEnv(passwordVar)
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return errors.Wrapf(ErrUnknownDriver, "%q (want %s or %s)", c.Driver, DriverMySQL, DriverPostgres)
	}
	if c.Iterations < 1 {
		return errors.Wrapf(ErrIterations, "got %d", c.Iterations)
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Wrapf(ErrPort, "got %d", c.Port)
	}
	if c.Output == "" {
		return ErrOutput
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// Logger builds a text logger at LogLevel, falling back to info.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
