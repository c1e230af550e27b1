package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cakeshop/internal/actuator"
	"cakeshop/internal/worker"
)

const DevAdminPassword = "cakeshop-dev"

var ErrAdminPasswordRequired = errors.New("ADMIN_PASSWORD is required (set DEBUG=1 for a development default)")

type Config struct {
	RunAddress         string
	AdminPassword      string
	Debug              bool
	DevPassword        bool
	JWTSecret          string
	JournalDatabaseURI string
	LogLevel           slog.Level

	Actuator actuator.Config
	Worker   worker.Config
}

// Load reads .env (if present), then flags, then environment variables.
// Environment wins over flags.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{Worker: worker.DefaultConfig()}
	var logLevel string

	flags := flag.NewFlagSet("cakeshop", flag.ContinueOnError)
	flags.StringVar(&cfg.RunAddress, "a", "0.0.0.0:8000", "server address and port")
	flags.StringVar(&cfg.JournalDatabaseURI, "d", "", "order journal database URI (optional)")
	flags.StringVar(&cfg.Actuator.RemoteURL, "r", "", "remote trigger webhook URL")
	flags.StringVar(&cfg.JWTSecret, "s", "", "admin session signing key")
	flags.StringVar(&logLevel, "l", "info", "log level")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.RunAddress = "0.0.0.0:" + port
	}
	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.JournalDatabaseURI = getEnv("JOURNAL_DATABASE_URI", cfg.JournalDatabaseURI)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.Debug = os.Getenv("DEBUG") == "1"
	logLevel = getEnv("LOG_LEVEL", logLevel)

	cfg.Actuator.RemoteURL = getEnv("REMOTE_TRIGGER_URL", cfg.Actuator.RemoteURL)
	cfg.Actuator.DeviceHost = os.Getenv("DEVICE_HOST")
	cfg.Actuator.DeviceScript = os.Getenv("DEVICE_SCRIPT")

	var err error
	if cfg.Actuator.RemoteTimeout, err = getEnvDuration("REMOTE_TRIGGER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Actuator.DevicePort, err = getEnvInt("DEVICE_PORT", actuator.DefaultDashboardPort); err != nil {
		return nil, err
	}
	if cfg.Actuator.DeviceRunDuration, err = getEnvDuration("DEVICE_RUN_DURATION", 0); err != nil {
		return nil, err
	}
	if cfg.Actuator.DeviceTimeout, err = getEnvDuration("DEVICE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Worker.MinSteps, err = getEnvInt("WORKER_MIN_STEPS", cfg.Worker.MinSteps); err != nil {
		return nil, err
	}
	if cfg.Worker.MaxSteps, err = getEnvInt("WORKER_MAX_STEPS", cfg.Worker.MaxSteps); err != nil {
		return nil, err
	}
	if cfg.Worker.StepInterval, err = getEnvDuration("WORKER_STEP_INTERVAL", cfg.Worker.StepInterval); err != nil {
		return nil, err
	}
	if cfg.Worker.PollTimeout, err = getEnvDuration("WORKER_POLL_TIMEOUT", cfg.Worker.PollTimeout); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AdminPassword == "" {
		if !c.Debug {
			return ErrAdminPasswordRequired
		}
		c.AdminPassword = DevAdminPassword
		c.DevPassword = true
	}
	if c.Worker.MinSteps < 1 {
		return fmt.Errorf("WORKER_MIN_STEPS must be at least 1, got %d", c.Worker.MinSteps)
	}
	if c.Worker.MaxSteps < c.Worker.MinSteps {
		return fmt.Errorf("WORKER_MAX_STEPS (%d) is below WORKER_MIN_STEPS (%d)", c.Worker.MaxSteps, c.Worker.MinSteps)
	}
	if c.Actuator.DevicePort <= 0 || c.Actuator.DevicePort > 65535 {
		return fmt.Errorf("DEVICE_PORT out of range: %d", c.Actuator.DevicePort)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
