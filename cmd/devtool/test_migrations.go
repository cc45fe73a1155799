package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type TestMigrationsCommand struct{}

func (c *TestMigrationsCommand) Name() string {
	return "test-migrations"
}

func (c *TestMigrationsCommand) Description() string {
	return "Test database migrations (up/down/idempotency)"
}

// Run applies the full migration set against a throwaway database, walks it
// back down to zero, and applies it again. Catches broken Down sections and
// non-reentrant Up sections before they reach a shared environment.
func (c *TestMigrationsCommand) Run(args []string) error {
	PrintHeader("Testing database migrations...")

	// Configuration
	dbName := "stakevault_test_migrations"
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)

	// psql reads the password from the environment, not argv
	os.Setenv("PGPASSWORD", dbPass)

	// Setup cleanup
	defer func() {
		PrintInfo("Cleaning up test database...")
		_ = runCommand("psql", "-h", dbHost, "-p", dbPort, "-U", dbUser, "-d", "postgres", "-c", fmt.Sprintf("DROP DATABASE IF EXISTS %s;", dbName))
	}()

	// Create test database
	PrintInfo("Creating test database: %s", dbName)
	_ = runCommand("psql", "-h", dbHost, "-p", dbPort, "-U", dbUser, "-d", "postgres", "-c", fmt.Sprintf("DROP DATABASE IF EXISTS %s;", dbName))

	if err := runCommand("psql", "-h", dbHost, "-p", dbPort, "-U", dbUser, "-d", "postgres", "-c", fmt.Sprintf("CREATE DATABASE %s;", dbName)); err != nil {
		PrintError("Error creating database: %v", err)
		return fmt.Errorf("database creation failed")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// Test UP migrations
	PrintInfo("Testing UP migrations...")
	if err := goose.Up(db, migrationsDir); err != nil {
		PrintError("Error running UP migrations: %v", err)
		return fmt.Errorf("migrations up failed")
	}

	versionUp, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if versionUp == 0 {
		PrintError("UP migrations did not update version (version is 0)")
		return fmt.Errorf("migrations up failed (version 0)")
	}
	PrintSuccess("UP migrations completed (Version: %d)", versionUp)

	// Test DOWN migrations (all the way)
	PrintInfo("Testing DOWN migrations (all)...")
	if err := goose.DownTo(db, migrationsDir, 0); err != nil {
		PrintError("Error running DOWN migrations: %v", err)
		return fmt.Errorf("migrations down failed")
	}

	versionDown, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if versionDown != 0 {
		PrintError("DOWN migrations did not reset version (Version: %d)", versionDown)
		return fmt.Errorf("migrations down failed (version != 0)")
	}
	PrintSuccess("DOWN migrations completed (Version: %d)", versionDown)

	// Test UP migrations again (idempotency)
	PrintInfo("Testing UP migrations again (idempotency)...")
	if err := goose.Up(db, migrationsDir); err != nil {
		PrintError("Error running UP migrations again: %v", err)
		return fmt.Errorf("migrations up (idempotency) failed")
	}

	versionReUp, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if versionReUp != versionUp {
		PrintError("Migration version mismatch (%d vs %d)", versionUp, versionReUp)
		return fmt.Errorf("idempotency check failed")
	}
	PrintSuccess("UP migrations completed again (Version: %d)", versionReUp)

	PrintSuccess("All migration tests passed!")
	return nil
}
