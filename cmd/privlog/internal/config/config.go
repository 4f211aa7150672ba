// Package config provides configuration management for the privlog
// application. Database credentials are sourced from environment variables
// only and are required: a missing variable is a startup error, never a
// silent default. Tunables (logging, redaction, hashing cost) come from an
// optional YAML config file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

const (
	// VersionMajor is the major version number
	VersionMajor = 1
	// VersionMinor is the minor version number
	VersionMinor = 2
)

// Version returns the version string in format {major}.{minor}
func Version() string {
	return fmt.Sprintf("%d.%d", VersionMajor, VersionMinor)
}

// Environment variable names for database credentials. These are consumed
// once at startup and treated as immutable for the process lifetime.
const (
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
)

// ErrMissingEnv indicates that one or more required environment variables
// are not set. Defaulting credentials silently would be a security
// regression, so this is always fatal at startup.
var ErrMissingEnv = errors.New("missing required environment variable")

// Defaults contains all default configuration values
// centralized in one place to avoid hardcoded literals
var Defaults = struct {
	Database struct {
		Connection string
	}
	Logging struct {
		Level  string
		Format string
		Path   string
	}
	Redaction struct {
		Fields    []string
		Mask      string
		Separator string
	}
	Credentials struct {
		Cost int
	}
	ConfigPath string
}{
	Database: struct {
		Connection string
	}{
		Connection: "mysql",
	},
	Logging: struct {
		Level  string
		Format string
		Path   string
	}{
		Level:  "info",
		Format: "simple",
		Path:   "/var/log/privlog",
	},
	Redaction: struct {
		Fields    []string
		Mask      string
		Separator string
	}{
		Fields:    []string{"name", "email", "phone", "ssn", "password"},
		Mask:      "***",
		Separator: ";",
	},
	Credentials: struct {
		Cost int
	}{
		Cost: 0, // 0 selects the bcrypt default cost
	},
	ConfigPath: "/etc/privlog.conf",
}

// AppConfig holds the application configuration.
// It is designed to be immutable after initialization.
type AppConfig struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Redaction   RedactionConfig   `mapstructure:"redaction"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
}

// DatabaseConfig holds database connection configuration. All credential
// fields are sourced from environment variables (DB_HOST, DB_PORT,
// DB_USER, DB_PASSWORD, DB_NAME) and are required. The password is never
// written to any log.
type DatabaseConfig struct {
	Connection string `mapstructure:"connection"` // database type: mysql, postgres, sqlite
	Host       string `mapstructure:"host"`       // from DB_HOST
	Port       int    `mapstructure:"port"`       // from DB_PORT
	User       string `mapstructure:"user"`       // from DB_USER
	Password   string `mapstructure:"password"`   // from DB_PASSWORD
	Name       string `mapstructure:"name"`       // from DB_NAME
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // minimum log level: debug, info, warn, error
	Format string `mapstructure:"format"` // output format: simple, console, json
	Path   string `mapstructure:"path"`   // log directory path
}

// RedactionConfig holds the declared PII field set and mask parameters
// applied to every log record before it reaches a sink.
type RedactionConfig struct {
	Fields    []string `mapstructure:"fields"`    // PII field names, matched exactly
	Mask      string   `mapstructure:"mask"`      // fixed replacement token
	Separator string   `mapstructure:"separator"` // field=value token delimiter
}

// CredentialsConfig holds password hashing configuration.
type CredentialsConfig struct {
	Cost int `mapstructure:"cost"` // bcrypt cost factor, 0 = library default
}

var globalConfig *AppConfig

// Load initializes and loads the application configuration.
// Database credentials are bound to their environment variables; the
// optional YAML config file supplies tunables only.
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()

	// Set default values from centralized Defaults struct
	v.SetDefault("database.connection", Defaults.Database.Connection)
	v.SetDefault("logging.level", Defaults.Logging.Level)
	v.SetDefault("logging.format", Defaults.Logging.Format)
	v.SetDefault("logging.path", Defaults.Logging.Path)
	v.SetDefault("redaction.fields", Defaults.Redaction.Fields)
	v.SetDefault("redaction.mask", Defaults.Redaction.Mask)
	v.SetDefault("redaction.separator", Defaults.Redaction.Separator)
	v.SetDefault("credentials.cost", Defaults.Credentials.Cost)

	// Bind database credentials to their environment variables. No
	// defaults: validation below rejects any that are unset.
	v.MustBindEnv("database.host", EnvDBHost)
	v.MustBindEnv("database.port", EnvDBPort)
	v.MustBindEnv("database.user", EnvDBUser)
	v.MustBindEnv("database.password", EnvDBPassword)
	v.MustBindEnv("database.name", EnvDBName)

	// Tunables may be overridden from the environment as well
	v.MustBindEnv("database.connection", "PRIVLOG_DB_CONNECTION")
	v.MustBindEnv("logging.level", "PRIVLOG_LOG_LEVEL")
	v.MustBindEnv("logging.format", "PRIVLOG_LOG_FORMAT")
	v.MustBindEnv("logging.path", "PRIVLOG_LOG_PATH")
	v.MustBindEnv("credentials.cost", "PRIVLOG_HASH_COST")

	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Use default config path
		v.SetConfigFile(Defaults.ConfigPath)
	}

	// Read config file (optional - continue if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		// If a specific config file was requested but not found, that's an error
		if configPath != "" {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// If using default path and file not found, that's OK - use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal configuration into struct
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Store in global variable for thread-safe read-only access
	globalConfig = &cfg

	return &cfg, nil
}

// validate checks that required configuration fields are present.
// Missing credentials are reported all at once, by environment variable
// name, so a misconfigured deployment fails before any connection attempt.
func validate(cfg *AppConfig) error {
	var missing []string
	if cfg.Database.Host == "" {
		missing = append(missing, EnvDBHost)
	}
	if cfg.Database.Port == 0 {
		missing = append(missing, EnvDBPort)
	}
	if cfg.Database.User == "" {
		missing = append(missing, EnvDBUser)
	}
	if cfg.Database.Password == "" {
		missing = append(missing, EnvDBPassword)
	}
	if cfg.Database.Name == "" {
		missing = append(missing, EnvDBName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", cfg.Database.Port)
	}

	switch cfg.Database.Connection {
	case "mysql", "postgres", "sqlite":
	case "":
		cfg.Database.Connection = Defaults.Database.Connection
	default:
		return fmt.Errorf("unsupported database connection type: %s", cfg.Database.Connection)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	case "":
		cfg.Logging.Level = Defaults.Logging.Level
	default:
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	if cfg.Logging.Path == "" {
		cfg.Logging.Path = Defaults.Logging.Path
	}

	// An empty redaction field set is legal (redaction becomes a no-op),
	// but mask and separator must be present for the formatter to be
	// well defined.
	if cfg.Redaction.Mask == "" {
		cfg.Redaction.Mask = Defaults.Redaction.Mask
	}
	if cfg.Redaction.Separator == "" {
		cfg.Redaction.Separator = Defaults.Redaction.Separator
	}

	if cfg.Credentials.Cost < 0 {
		return fmt.Errorf("invalid credentials cost: %d", cfg.Credentials.Cost)
	}

	return nil
}

// Get returns the global configuration instance.
// This is thread-safe as the config is immutable after Load().
func Get() *AppConfig {
	if globalConfig == nil {
		panic("configuration not loaded - call config.Load() first")
	}
	return globalConfig
}
