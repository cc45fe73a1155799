package gamification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAction_SendsPayloadAndKey(t *testing.T) {
	var got actionRequest
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathActions, r.URL.Path)
		gotKey = r.Header.Get(HeaderAPIKey)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret-key")
	err := client.NotifyAction(context.Background(), "acct-1", ActionStake, 995)

	require.NoError(t, err)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "acct-1", got.AccountID)
	assert.Equal(t, ActionStake, got.Action)
	assert.Equal(t, int64(995), got.Amount)
}

func TestNotifyAction_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key")
	err := client.NotifyAction(context.Background(), "acct-1", ActionCompound, 100)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "backend down")
}

func TestNotifyAction_ConnectionRefused(t *testing.T) {
	// Server closed before the call so the dial fails
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, "key")
	err := client.NotifyAction(context.Background(), "acct-1", ActionStake, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgRequestFailed)
}

func TestAutoCompoundEnabled(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
	}{
		{name: "opted in", status: http.StatusOK, body: `{"enabled":true}`, want: true},
		{name: "opted out", status: http.StatusOK, body: `{"enabled":false}`, want: false},
		{name: "unknown account", status: http.StatusNotFound, body: `not found`, want: false},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/accounts/acct-1/auto-compound", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPClient(server.URL, "key")
			enabled, err := client.AutoCompoundEnabled(context.Background(), "acct-1")

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, enabled)
		})
	}
}

func TestXPInfo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/accounts/acct-1/xp", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get(HeaderAPIKey))
		_, _ = w.Write([]byte(`{"xp":4200,"level":7}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key")
	info, err := client.XPInfo(context.Background(), "acct-1")

	require.NoError(t, err)
	assert.Equal(t, int64(4200), info.XP)
	assert.Equal(t, 7, info.Level)
}

func TestXPInfo_UnknownAccountGetsZeros(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key")
	info, err := client.XPInfo(context.Background(), "stranger")

	require.NoError(t, err)
	assert.Equal(t, int64(0), info.XP)
	assert.Equal(t, 0, info.Level)
}

func TestXPInfo_AccountIDEscaped(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"xp":0,"level":0}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key")
	_, err := client.XPInfo(context.Background(), "acct/../1")

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/accounts/acct%2F..%2F1/xp", gotPath)
}

func TestNewHTTPClient_TrimsTrailingSlash(t *testing.T) {
	client := NewHTTPClient("http://authority.local/", "key")
	assert.Equal(t, "http://authority.local", client.baseURL)
	assert.Equal(t, DefaultTimeout, client.client.Timeout)
}
