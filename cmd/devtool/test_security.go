package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

type TestSecurityCommand struct{}

func (c *TestSecurityCommand) Name() string {
	return "test-security"
}

func (c *TestSecurityCommand) Description() string {
	return "Run API security tests against a running instance"
}

// Run probes the live API surface with each key tier. Everything here is
// either read-only or rejected before it reaches a handler, so it is safe
// against any environment.
func (c *TestSecurityCommand) Run(args []string) error {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		PrintError("API_KEY not found in environment (check .env file)")
		return fmt.Errorf("API_KEY not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	PrintHeader("Security Feature Tests")

	failures := 0

	// Test 1: Request without API key
	if !c.runTestCase(1, "Request without API key (should fail with 401)",
		"GET", baseURL+"/api/v1/pool", "", 401, nil) {
		failures++
	}

	// Test 2: Request with wrong API key
	if !c.runTestCase(2, "Request with wrong API key (should fail with 401)",
		"GET", baseURL+"/api/v1/pool", "wrong_key", 401, nil) {
		failures++
	}

	// Test 3: Request with valid API key
	if !c.runTestCase(3, "Request with valid API key (should succeed with 200)",
		"GET", baseURL+"/api/v1/pool", apiKey, 200, nil) {
		failures++
	}

	// Test 4: Invalid lock tier
	if !c.runTestCase(4, "Invalid lock tier (should fail with 400)",
		"POST", baseURL+"/api/v1/stake/deposit", apiKey, 400, map[string]interface{}{
			"account_id": "sec_test_account",
			"amount":     1000,
			"lock_tier":  45,
		}) {
		failures++
	}

	// Test 5: Zero amount
	if !c.runTestCase(5, "Zero amount (should fail with 400)",
		"POST", baseURL+"/api/v1/stake/deposit", apiKey, 400, map[string]interface{}{
			"account_id": "sec_test_account",
			"amount":     0,
			"lock_tier":  0,
		}) {
		failures++
	}

	// Test 6: Account ID too long
	longAccount := strings.Repeat("A", 200)
	if !c.runTestCase(6, "Account ID too long (should fail with 400)",
		"POST", baseURL+"/api/v1/stake/deposit", apiKey, 400, map[string]interface{}{
			"account_id": longAccount,
			"amount":     1000,
			"lock_tier":  0,
		}) {
		failures++
	}

	// Test 7: Client key on admin endpoint
	if !c.runTestCase(7, "Client key on admin endpoint (should fail with 403)",
		"POST", baseURL+"/api/v1/admin/pause", apiKey, 403, nil) {
		failures++
	}

	// Test 8: Client key on authority endpoint
	if !c.runTestCase(8, "Client key on authority endpoint (should fail with 403)",
		"GET", baseURL+"/api/v1/skills/profile?account_id=sec_test_account", apiKey, 403, nil) {
		failures++
	}

	if failures > 0 {
		PrintError("Security Tests Failed (%d failures)", failures)
		return fmt.Errorf("security tests failed")
	}

	PrintSuccess("Security Tests Complete")
	return nil
}

func (c *TestSecurityCommand) runTestCase(testNum int, description, method, url, apiKey string, expectedStatus int, payload interface{}) bool {
	fmt.Printf("Test %d: %s\n", testNum, description)
	statusCode := c.makeRequest(method, url, apiKey, payload)

	if statusCode == expectedStatus {
		fmt.Printf(" - Result: %d (OK)\n", statusCode)
		fmt.Println()
		return true
	}
	fmt.Printf(" - Result: %s%d (Expected %d)%s\n", colorRed, statusCode, expectedStatus, colorReset)
	fmt.Println()
	return false
}

func (c *TestSecurityCommand) makeRequest(method, url, apiKey string, payload interface{}) int {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Error marshaling payload: %v\n", err)
			return 0
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return 0
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		return 0
	}
	defer resp.Body.Close()

	return resp.StatusCode
}
