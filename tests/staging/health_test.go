//go:build staging

package staging

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealthCheck(t *testing.T) {
	resp, _ := makeRequest(t, "GET", "/healthz", nil)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestReadiness(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/readyz", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if health.Status != "ok" {
		t.Errorf("Expected status 'ok', got %q", health.Status)
	}
}

func TestVersion(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/version", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var info struct {
		Service   string `json:"service"`
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if info.Service != "stakevault" {
		t.Errorf("Expected service 'stakevault', got %q", info.Service)
	}
	if info.Version == "" {
		t.Error("Expected a non-empty version")
	}
}
