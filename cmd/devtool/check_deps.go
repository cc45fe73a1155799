package main

import (
	"fmt"
	"strings"
)

type CheckDepsCommand struct{}

func (c *CheckDepsCommand) Name() string {
	return "check-deps"
}

func (c *CheckDepsCommand) Description() string {
	return "Check for required development dependencies"
}

func (c *CheckDepsCommand) Run(args []string) error {
	fmt.Println("Checking dependencies...")

	hasError := false

	// Check Go
	if version, err := getCommandOutput("go", "version"); err == nil {
		// Output: go version go1.21.0 linux/amd64
		parts := strings.Fields(version)
		if len(parts) >= 3 {
			fmt.Printf("✅ Go installed: %s\n", parts[2])
		} else {
			fmt.Printf("✅ Go installed: %s\n", version)
		}
	} else {
		fmt.Println("❌ Go not found!")
		fmt.Println("   Install from: https://go.dev/dl/")
		hasError = true
	}

	// Check Docker
	if version, err := getCommandOutput("docker", "--version"); err == nil {
		// Output: Docker version 24.0.5, build ced0996
		parts := strings.Fields(version)
		if len(parts) >= 3 {
			v := strings.TrimRight(parts[2], ",")
			fmt.Printf("✅ Docker installed: %s\n", v)
		} else {
			fmt.Printf("✅ Docker installed: %s\n", version)
		}
	} else {
		fmt.Println("❌ Docker not found!")
		fmt.Println("   Install from: https://docs.docker.com/get-docker/")
		hasError = true
	}

	// Check Docker Compose
	if version, err := getCommandOutput("docker", "compose", "version"); err == nil {
		// Output: Docker Compose version v2.20.2
		parts := strings.Fields(version)
		if len(parts) >= 4 {
			fmt.Printf("✅ Docker Compose installed: %s\n", parts[3])
		} else {
			fmt.Printf("✅ Docker Compose installed: %s\n", version)
		}
	} else {
		fmt.Println("❌ Docker Compose plugin not found!")
		fmt.Println("   Install from: https://docs.docker.com/compose/install/")
		hasError = true
	}

	// Check psql (only needed for test-migrations and manual poking)
	if version, err := getCommandOutput("psql", "--version"); err == nil {
		parts := strings.Fields(version)
		if len(parts) >= 3 {
			fmt.Printf("✅ psql installed: %s\n", parts[2])
		} else {
			fmt.Printf("✅ psql installed: %s\n", version)
		}
	} else {
		fmt.Println("⚠️  psql not found (needed for test-migrations)")
	}

	if hasError {
		return fmt.Errorf("missing required dependencies")
	}

	fmt.Println("\n🎉 Environment check complete!")
	return nil
}
