package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port          int    `yaml:"port"`
	DatabaseURL   string `yaml:"database_url"`
	DatabaseType  string `yaml:"database_type"`
	AdminIdentity string `yaml:"admin_identity"`
	IdentitySalt  string `yaml:"identity_salt"`

	ConfigFile string   `yaml:"-"`
	EnvFile    string   `yaml:"-"`
	Args       []string `yaml:"-"`
}

// ParseFlags resolves the configuration. Precedence is flag, environment
// (including the .env file), YAML config file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("ballot-ledger", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or bolt)")

	fs.StringVar(&cfg.AdminIdentity, "admin", "", "Admin identity")
	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IdentitySalt, "identity-salt", "", "Identity token salt (prefer env)")

	fs.StringVar(&cfg.ConfigFile, "c", "", "YAML config file")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Environment file, skipped if missing")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()

	// godotenv never overrides variables that are already set
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", cfg.EnvFile, err)
		}
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	var file Config
	if cfg.ConfigFile != "" {
		var err error
		file, err = loadConfigFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
	}

	// Fall back to environment variables, then the config file
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else if file.Port != 0 {
			cfg.Port = file.Port
		} else {
			cfg.Port = 3318 // default
		}
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), file.DatabaseType, "sqlite")
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "bolt":
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"), file.DatabaseURL)
	if cfg.DatabaseURL == "" {
		switch cfg.DatabaseType {
		case "sqlite":
			cfg.DatabaseURL = "ballot-ledger.db"
		case "bolt":
			cfg.DatabaseURL = "ballot-ledger.bolt"
		default:
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}

	cfg.AdminIdentity = firstNonEmpty(cfg.AdminIdentity, os.Getenv("ADMIN_IDENTITY"), file.AdminIdentity)
	if cfg.AdminIdentity == "" {
		return Config{}, errors.New("ADMIN_IDENTITY required")
	}

	// Secrets - MUST be provided
	cfg.IdentitySalt = firstNonEmpty(cfg.IdentitySalt, os.Getenv("IDENTITY_SALT"), file.IdentitySalt)
	if cfg.IdentitySalt == "" {
		return Config{}, errors.New("IDENTITY_SALT required")
	}

	return cfg, nil
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
