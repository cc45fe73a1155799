package main

import (
	"fmt"
	"net/http"
	"time"
)

type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Check application health and readiness"
}

func (c *HealthCheckCommand) Run(args []string) error {
	env := envProduction
	if len(args) > 0 {
		env = args[0]
	}

	PrintHeader(fmt.Sprintf("Health Check (%s)", env))

	if err := checkHealth(env); err != nil {
		PrintError("Health check failed: %v", err)
		return err
	}

	// Liveness is table stakes; readiness also proves the database path.
	if err := checkReadiness(env); err != nil {
		PrintError("Readiness check failed: %v", err)
		return err
	}

	// Also check response time
	start := time.Now()
	if err := checkHealth(env); err != nil {
		return err
	}
	duration := time.Since(start)

	if duration > 1*time.Second {
		PrintWarning("Health check warning: slow response time (%v)", duration)
	} else {
		PrintSuccess("Health and readiness passed (response time: %v)", duration)
	}

	return nil
}

func checkReadiness(env string) error {
	port := "8080"
	if env == envStaging {
		port = "8081"
	}
	url := fmt.Sprintf("http://localhost:%s/readyz", port)

	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil
}
