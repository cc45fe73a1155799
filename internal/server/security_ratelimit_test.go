package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSecurityLoggingMiddleware_RateLimiting(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	middleware := SecurityLoggingMiddleware(nil, detector)

	// Create a handler that always returns OK
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ip := "192.168.1.100"
	req := httptest.NewRequest("GET", "/api/v1/stake/rewards", nil)
	req.RemoteAddr = ip + ":1234"

	// Simulate requests up to the limit
	// Limit is 1000
	for i := 0; i < 1000; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with status %d", i, rec.Code)
		}
	}

	// Next request should be blocked
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 Too Many Requests, got %d", rec.Code)
	}

	// Verify detector state
	detector.mu.Lock()
	count := detector.requestCountByIP[ip]
	detector.mu.Unlock()

	if count != 1001 {
		t.Errorf("expected count 1001, got %d", count)
	}
}

func TestSuspiciousActivityDetector_WindowReset(t *testing.T) {
	detector := NewSuspiciousActivityDetector()

	detector.RecordFailedAuth("10.0.0.5")
	if !detector.RecordRequest("10.0.0.5") {
		t.Fatal("first request should not be rate limited")
	}

	// Age the window past the 5 minute horizon
	detector.mu.Lock()
	detector.lastResetTime = time.Now().Add(-6 * time.Minute)
	detector.mu.Unlock()

	if !detector.RecordRequest("10.0.0.5") {
		t.Error("request after window reset should not be rate limited")
	}

	detector.mu.Lock()
	failedCount := detector.failedAuthByIP["10.0.0.5"]
	requestCount := detector.requestCountByIP["10.0.0.5"]
	detector.mu.Unlock()

	if failedCount != 0 {
		t.Errorf("expected failed auth count reset to 0, got %d", failedCount)
	}
	if requestCount != 1 {
		t.Errorf("expected request count 1 after reset, got %d", requestCount)
	}
}
