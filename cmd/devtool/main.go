package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := NewRegistry()
	registry.Register(&SetupCommand{})
	registry.Register(&DoctorCommand{})
	registry.Register(&CheckDepsCommand{})
	registry.Register(&CheckDBCommand{})
	registry.Register(&CheckCoverageCommand{})
	registry.Register(&WaitForDBCommand{})
	registry.Register(&MigrateCommand{})
	registry.Register(&TestMigrationsCommand{})
	registry.Register(&SeedCommand{})
	registry.Register(&InspectCommand{})
	registry.Register(&PreCommitCommand{})
	registry.Register(&TestSecurityCommand{})
	registry.Register(&BenchCommand{})
	registry.Register(&BuildCommand{})
	registry.Register(&HealthCheckCommand{})
	registry.Register(&PushCommand{})
	registry.Register(&DeployCommand{})
	registry.Register(&RollbackCommand{})
	registry.Register(&EntrypointCommand{})

	if len(os.Args) < 2 {
		registry.PrintHelp()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		registry.PrintHelp()
		return
	}

	cmd, ok := registry.Get(name)
	if !ok {
		PrintError("Unknown command: %s", name)
		registry.PrintHelp()
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}
