// Package gamification is the boundary to the external gamification
// authority. The ledger reports value movements to it and reads XP and
// auto-compound opt-in state back; every call is best-effort from the
// ledger's point of view.
package gamification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/novakeep/stakevault/internal/domain"
	"github.com/novakeep/stakevault/internal/logger"
)

// Authority defines the interface to the external gamification service
type Authority interface {
	// NotifyAction reports a completed value movement ("stake", "compound").
	NotifyAction(ctx context.Context, accountID, action string, amount int64) error

	// AutoCompoundEnabled reports whether the account opted in to the
	// auto-compound sweep. Unknown accounts are not opted in.
	AutoCompoundEnabled(ctx context.Context, accountID string) (bool, error)

	// XPInfo returns the account's XP and level. Unknown accounts get zeros.
	XPInfo(ctx context.Context, accountID string) (*domain.XPInfo, error)
}

// HTTPClient talks to the gamification authority over its JSON API
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a client for the authority at baseURL
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

var _ Authority = (*HTTPClient)(nil)

type actionRequest struct {
	AccountID string `json:"account_id"`
	Action    string `json:"action"`
	Amount    int64  `json:"amount"`
}

type autoCompoundResponse struct {
	Enabled bool `json:"enabled"`
}

// NotifyAction reports a completed value movement to the authority
func (c *HTTPClient) NotifyAction(ctx context.Context, accountID, action string, amount int64) error {
	body, err := json.Marshal(actionRequest{
		AccountID: accountID,
		Action:    action,
		Amount:    amount,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathActions, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	logger.FromContext(ctx).Debug(LogMsgActionNotified,
		"account_id", accountID,
		"action", action,
		"amount", amount)
	return nil
}

// AutoCompoundEnabled reports whether the account opted in to auto-compound
func (c *HTTPClient) AutoCompoundEnabled(ctx context.Context, accountID string) (bool, error) {
	endpoint := c.baseURL + fmt.Sprintf(PathAutoCompound, url.PathEscape(accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}
	defer resp.Body.Close()

	// Accounts the authority has never seen are simply not opted in
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := checkStatus(resp); err != nil {
		return false, err
	}

	var out autoCompoundResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgDecodeResponse, err)
	}
	return out.Enabled, nil
}

// XPInfo returns the account's XP and level from the authority
func (c *HTTPClient) XPInfo(ctx context.Context, accountID string) (*domain.XPInfo, error) {
	endpoint := c.baseURL + fmt.Sprintf(PathXP, url.PathEscape(accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &domain.XPInfo{}, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var info domain.XPInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgDecodeResponse, err)
	}
	return &info, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
	return fmt.Errorf("%s: %d: %s", ErrMsgUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
}
