package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thalib/privlog/cmd/privlog/internal/config"
	"github.com/thalib/privlog/cmd/privlog/internal/constants"
	"github.com/thalib/privlog/cmd/privlog/internal/credentials"
	"github.com/thalib/privlog/cmd/privlog/internal/database"
	"github.com/thalib/privlog/cmd/privlog/internal/logging"
	"github.com/thalib/privlog/cmd/privlog/internal/preflight"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to configuration file (default: /etc/privlog.conf)")
	seed := flag.Bool("seed", false, "insert sample users into an empty users table before the audit dump")
	flag.Parse()

	fmt.Println("Privlog - PII-safe user data audit")

	// Load configuration. Database credentials come from the environment;
	// a missing variable fails here, before any connection attempt.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Run preflight checks before any other initialization
	if err := runPreflightChecks(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Preflight checks failed: %v\n", err)
		os.Exit(1)
	}

	// The hashing cost is a configuration value; an out-of-range cost is
	// fatal, never silently downgraded.
	hasher, err := credentials.NewHasher(cfg.Credentials.Cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid hashing configuration: %v\n", err)
		os.Exit(1)
	}

	// Every record below this point passes through the redacting pipeline.
	logFile := filepath.Join(cfg.Logging.Path, "main.log")
	logging.Init(logging.LoggerConfig{
		Level:       logging.Level(cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		FilePath:    logFile,
		ServiceName: "privlog",
		Version:     config.Version(),
		PIIFields:   cfg.Redaction.Fields,
		Mask:        cfg.Redaction.Mask,
		Separator:   cfg.Redaction.Separator,
	})

	logConfigSummary(cfg)

	// Initialize database driver
	dbConfig := database.Config{
		ConnectionString: database.BuildDSN(
			cfg.Database.Connection,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		),
	}

	driver, err := database.NewDriver(dbConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create database driver: %v\n", err)
		os.Exit(1)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), constants.ConnectTimeout)
	if err := driver.Connect(connectCtx); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	cancel()
	defer driver.Close()

	logging.Infof("Connected to %s database", driver.Dialect())

	if err := runAudit(cfg, driver, hasher, *seed); err != nil {
		logging.ErrorWithErr("Audit dump failed", err)
		fmt.Fprintf(os.Stderr, "Audit dump failed: %v\n", err)
		os.Exit(1)
	}

	logging.Info("Audit dump completed")
}

// runAudit dumps every row of the users table through the redacting
// logger. Each record is a field=value line; the logging pipeline masks
// the declared PII fields before any sink sees it.
func runAudit(cfg *config.AppConfig, driver database.Driver, hasher *credentials.Hasher, seed bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.QueryTimeout)
	defer cancel()

	// Tag all records of this run with one request ID
	ctx = logging.SetRequestID(ctx, logging.NewRequestID())
	logger := logging.GetLogger().WithContext(ctx)

	store := database.NewUserStore(driver, hasher)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	if seed {
		inserted, err := store.SeedUsers(ctx)
		if err != nil {
			return err
		}
		if inserted > 0 {
			logger.Infof("Seeded %d sample users", inserted)
		}
	}

	start := time.Now()
	records, err := store.Records(ctx, cfg.Redaction.Separator)
	if err != nil {
		return err
	}
	logger.LogSlowQuery("SELECT * FROM "+database.UsersTable, time.Since(start))

	for _, record := range records {
		logger.Info(record)
	}

	logger.Infof("Dumped %d user records", len(records))
	return nil
}

// runPreflightChecks validates and creates required files and directories
func runPreflightChecks(cfg *config.AppConfig) error {
	var checks []preflight.FileCheck

	// Check logging directory
	checks = append(checks, preflight.FileCheck{
		Path:      cfg.Logging.Path,
		IsDir:     true,
		Required:  true,
		FailFatal: true,
	})

	// For SQLite, check the database file parent directory
	if cfg.Database.Connection == "sqlite" {
		checks = append(checks, preflight.FileCheck{
			Path:      filepath.Dir(cfg.Database.Name),
			IsDir:     true,
			Required:  true,
			FailFatal: true,
		})
	}

	results, err := preflight.ValidateAndCreate(checks)
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Created {
			fmt.Printf("✓ Created: %s\n", result.Path)
		} else if result.Exists {
			fmt.Printf("✓ Verified: %s\n", result.Path)
		}
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ Error with %s: %v\n", result.Path, result.Error)
		}
	}

	return nil
}

// logConfigSummary logs the loaded configuration for debugging.
// The database password is deliberately absent.
func logConfigSummary(cfg *config.AppConfig) {
	logging.Info("=== Configuration Summary ===")
	logging.Infof("Database Type: %s", cfg.Database.Connection)
	logging.Infof("Database: %s", cfg.Database.Name)
	logging.Infof("Database Host: %s:%d", cfg.Database.Host, cfg.Database.Port)
	logging.Infof("Database User: %s", cfg.Database.User)
	logging.Infof("Logging Path: %s", cfg.Logging.Path)
	logging.Infof("Redacted Fields: %d declared", len(cfg.Redaction.Fields))
	logging.Info("============================")
}
