//go:build staging

package staging

import (
	"encoding/json"
	"net/http"
	"testing"
)

// TestPoolView verifies the pool endpoint reports sane aggregates. The
// staging seed leaves at least one account with a live deposit, so both
// figures must be positive.
func TestPoolView(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/api/v1/pool", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var pool struct {
		Stats struct {
			TotalPoolBalance int64 `json:"total_pool_balance"`
			RewardReserve    int64 `json:"reward_reserve"`
			UniqueAccounts   int64 `json:"unique_accounts"`
		} `json:"stats"`
		State struct {
			Treasury string `json:"treasury"`
			Paused   bool   `json:"paused"`
		} `json:"state"`
	}
	if err := json.Unmarshal(body, &pool); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if pool.Stats.TotalPoolBalance <= 0 {
		t.Errorf("Expected positive pool balance, got %d", pool.Stats.TotalPoolBalance)
	}
	if pool.Stats.UniqueAccounts <= 0 {
		t.Errorf("Expected at least one account, got %d", pool.Stats.UniqueAccounts)
	}
	if pool.State.Treasury == "" {
		t.Error("Expected a configured treasury address")
	}
	if pool.State.Paused {
		t.Error("Staging ledger should not be paused")
	}
}

// TestAccountView reads the seeded smoke account end to end: custody totals,
// the deposit list, and the derived reward figures.
func TestAccountView(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/api/v1/stake/account?account_id="+smokeAccount(), nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var summary struct {
		AccountID      string `json:"account_id"`
		TotalDeposited int64  `json:"total_deposited"`
		PendingReward  int64  `json:"pending_reward"`
		Deposits       []struct {
			Amount   int64 `json:"amount"`
			LockTier int   `json:"lock_tier"`
		} `json:"deposits"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if summary.AccountID != smokeAccount() {
		t.Errorf("Expected account %q, got %q", smokeAccount(), summary.AccountID)
	}
	if summary.TotalDeposited <= 0 {
		t.Errorf("Expected positive total deposited, got %d", summary.TotalDeposited)
	}
	if len(summary.Deposits) == 0 {
		t.Error("Expected at least one deposit")
	}
	// The seed ages the deposit by a week, so accrual must be visible.
	if summary.PendingReward <= 0 {
		t.Errorf("Expected positive pending reward on aged deposit, got %d", summary.PendingReward)
	}
}

// TestRewardsRead checks both the base and the boosted reward reads.
func TestRewardsRead(t *testing.T) {
	for _, boosted := range []string{"false", "true"} {
		resp, body := makeRequest(t, "GET",
			"/api/v1/stake/rewards?account_id="+smokeAccount()+"&boosted="+boosted, nil)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("boosted=%s: expected status 200, got %d: %s", boosted, resp.StatusCode, body)
		}

		var rewards struct {
			AccountID string `json:"account_id"`
			Pending   int64  `json:"pending"`
			Boosted   bool   `json:"boosted"`
		}
		if err := json.Unmarshal(body, &rewards); err != nil {
			t.Fatalf("boosted=%s: failed to unmarshal response: %v", boosted, err)
		}

		if rewards.Pending < 0 {
			t.Errorf("boosted=%s: pending reward must not be negative, got %d", boosted, rewards.Pending)
		}
	}
}

// TestDepositFlow stakes a small amount and confirms the account view
// reflects it. Staging data is reseeded on deploy, so the extra deposit
// does not accumulate across runs.
func TestDepositFlow(t *testing.T) {
	before, beforeBody := makeRequest(t, "GET", "/api/v1/stake/account?account_id="+smokeAccount(), nil)
	if before.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 reading account, got %d: %s", before.StatusCode, beforeBody)
	}

	var beforeSummary struct {
		TotalDeposited int64 `json:"total_deposited"`
	}
	if err := json.Unmarshal(beforeBody, &beforeSummary); err != nil {
		t.Fatalf("Failed to unmarshal account view: %v", err)
	}

	const amount = 5000
	resp, body := makeRequest(t, "POST", "/api/v1/stake/deposit", map[string]interface{}{
		"account_id": smokeAccount(),
		"amount":     amount,
		"lock_tier":  0,
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.StatusCode, body)
	}

	var result struct {
		AccountID  string `json:"account_id"`
		DepositID  int64  `json:"deposit_id"`
		Gross      int64  `json:"gross"`
		Commission int64  `json:"commission"`
		Net        int64  `json:"net"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to unmarshal deposit result: %v", err)
	}

	if result.DepositID == 0 {
		t.Error("Expected a deposit ID")
	}
	if result.Gross != amount {
		t.Errorf("Expected gross %d, got %d", amount, result.Gross)
	}
	if result.Net+result.Commission != result.Gross {
		t.Errorf("Net %d + commission %d should equal gross %d",
			result.Net, result.Commission, result.Gross)
	}

	after, afterBody := makeRequest(t, "GET", "/api/v1/stake/account?account_id="+smokeAccount(), nil)
	if after.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 re-reading account, got %d: %s", after.StatusCode, afterBody)
	}

	var afterSummary struct {
		TotalDeposited int64 `json:"total_deposited"`
	}
	if err := json.Unmarshal(afterBody, &afterSummary); err != nil {
		t.Fatalf("Failed to unmarshal account view: %v", err)
	}

	if afterSummary.TotalDeposited != beforeSummary.TotalDeposited+result.Net {
		t.Errorf("Total deposited should grow by the net amount: before=%d net=%d after=%d",
			beforeSummary.TotalDeposited, result.Net, afterSummary.TotalDeposited)
	}
}

// TestAdminKeyRequired confirms the client key cannot reach admin routes.
func TestAdminKeyRequired(t *testing.T) {
	if clientKey() == adminKey() {
		t.Skip("ADMIN_API_KEY not configured separately; a rejected call cannot be distinguished")
	}

	resp, _ := makeRequest(t, "POST", "/api/v1/admin/pause", nil)

	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401/403 for client key on admin route, got %d", resp.StatusCode)
	}
}
