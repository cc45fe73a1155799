package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type SeedCommand struct{}

func (c *SeedCommand) Name() string {
	return "seed"
}

func (c *SeedCommand) Description() string {
	return "Seed database with data (test, staging)"
}

func (c *SeedCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: test, staging")
	}
	subcmd := args[0]

	dbURL := resolveDBURL()
	PrintInfo("Connecting to database: %s", redactDBURL(dbURL))

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	switch subcmd {
	case "test":
		return c.runTestSeed(db)
	case "staging":
		return c.runStagingSeed(db)
	default:
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

func (c *SeedCommand) runTestSeed(db *sql.DB) error {
	PrintInfo("Running test seeds...")

	files := []string{
		"internal/database/seeds/test_accounts.sql",
	}

	for _, file := range files {
		if err := c.executeFile(db, file); err != nil {
			return err
		}
	}

	PrintSuccess("Test seeds completed successfully")
	return nil
}

func (c *SeedCommand) runStagingSeed(db *sql.DB) error {
	PrintInfo("Running staging seeds...")

	files := []string{
		"internal/database/seeds/staging_accounts.sql",
	}

	for _, file := range files {
		if err := c.executeFile(db, file); err != nil {
			return err
		}
	}

	PrintSuccess("Staging seeds completed successfully")
	return nil
}

func (c *SeedCommand) executeFile(db *sql.DB, filepath string) error {
	PrintInfo("Executing %s...", filepath)

	content, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", filepath, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute seed file %s: %w", filepath, err)
	}

	return nil
}
