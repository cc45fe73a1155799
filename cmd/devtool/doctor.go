package main

import (
	"fmt"

	"github.com/novakeep/stakevault/internal/config"
)

type DoctorCommand struct{}

func (c *DoctorCommand) Name() string {
	return "doctor"
}

func (c *DoctorCommand) Description() string {
	return "Diagnose environment issues (deps + db + config)"
}

func (c *DoctorCommand) Run(args []string) error {
	PrintHeader("Running Doctor...")

	hasError := false

	// Run Check Deps
	depsCmd := &CheckDepsCommand{}
	if err := depsCmd.Run(nil); err != nil {
		PrintError("Dependencies check failed: %v", err)
		hasError = true
	} else {
		PrintSuccess("Dependencies OK")
	}

	// Run Check DB
	dbCmd := &CheckDBCommand{}
	if err := dbCmd.Run(nil); err != nil {
		PrintError("Database check failed: %v", err)
		hasError = true
	} else {
		PrintSuccess("Database OK")
	}

	// Run Check Config
	if err := c.checkConfig(); err != nil {
		PrintError("Config check failed: %v", err)
		hasError = true
	} else {
		PrintSuccess("Config OK")
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}

	PrintSuccess("All systems operational!")
	return nil
}

// checkConfig runs the strict env schema validation against the current
// environment, surfacing insecure-default warnings without failing on them.
func (c *DoctorCommand) checkConfig() error {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("%v (copy .env.example to .env and fill it in)", err)
	}
	for _, w := range warnings {
		PrintWarning("%s", w)
	}
	return nil
}
