package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/tegarrramadhaaan/timeline/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultSessionTTL   = 24 * time.Hour
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the timeline service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Session tokens are signed with symmetric encryption, so this key is used for that purpose
	SecretKey string

	// How long an issued session stays valid
	SessionTTL time.Duration

	// Environment
	Environment string

	// Expose the /init route that seeds demo users.
	// Never enable on a real deployment
	DemoMode bool
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		SessionTTL:  defaultSessionTTL,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}
	setBool := func(o *bool) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*o = b
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":  setString(&c.ListenAddr),
		"DATABASE_URI": setString(&c.DatabaseDSN),
		"SECRET_KEY":   setString(&c.SecretKey),
		"SESSION_TTL":  setDuration(&c.SessionTTL),
		"LOG_LEVEL":    setString(&c.LogLevel),
		"ENVIRONMENT":  setString(&c.Environment),
		"DEMO_MODE":    setBool(&c.DemoMode),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("timeline", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "Session lifetime")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.BoolVar(&c.DemoMode, "demo", c.DemoMode, "Serve the demo data seeding route")

	return fs.Parse(args)
}
