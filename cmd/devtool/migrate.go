package main

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Manage database migrations (up, down, status, create)"
}

// Run drives goose as a library rather than shelling out, so the devtool
// binary can migrate inside containers with no Go toolchain present.
func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, up-to, down, down-to, status, version, create")
	}
	subcmd := args[0]

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// create needs no database connection
	if subcmd == "create" {
		if len(args) < 2 {
			return fmt.Errorf("migration name required for create")
		}
		migrationType := "sql"
		if len(args) > 2 {
			migrationType = args[2]
		}
		return goose.Create(nil, migrationsDir, args[1], migrationType)
	}

	db, err := sql.Open("pgx", resolveDBURL())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	switch subcmd {
	case "up":
		return goose.Up(db, migrationsDir)
	case "up-to":
		version, err := parseVersionArg(args)
		if err != nil {
			return err
		}
		return goose.UpTo(db, migrationsDir, version)
	case "down":
		return goose.Down(db, migrationsDir)
	case "down-to":
		version, err := parseVersionArg(args)
		if err != nil {
			return err
		}
		return goose.DownTo(db, migrationsDir, version)
	case "status":
		return goose.Status(db, migrationsDir)
	case "version":
		return goose.Version(db, migrationsDir)
	default:
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

func parseVersionArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("target version required")
	}
	version, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[1], err)
	}
	return version, nil
}
