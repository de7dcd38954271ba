package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecomeli/verde/internal/infrastructure/meli"
	"github.com/ecomeli/verde/internal/services/session"
)

func pointAPIAt(t *testing.T, serverURL string) {
	t.Helper()
	os.Setenv("MELI_API_BASE_URL", serverURL)
	t.Cleanup(func() { os.Unsetenv("MELI_API_BASE_URL") })
}

func newManager() *Manager {
	return NewManager(meli.NewClient())
}

func TestGetAccessTokenFastPath(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()
	pointAPIAt(t, server.URL)

	state := session.NewState()
	state.SetTokens("cached-token", "refresh", time.Now().Unix()+600)
	state.SetValue("cart_items", "3")

	before := *state

	got := newManager().GetAccessToken(context.Background(), state)

	if got != "cached-token" {
		t.Errorf("Got token %q, want cached-token", got)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Error("Fast path must not issue network calls")
	}
	if !reflect.DeepEqual(before, *state) {
		t.Errorf("Fast path must be side-effect-free, state changed: %+v -> %+v", before, *state)
	}
}

func TestGetAccessTokenNoCredentials(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()
	pointAPIAt(t, server.URL)

	state := session.NewState()

	if got := newManager().GetAccessToken(context.Background(), state); got != "" {
		t.Errorf("Got token %q, want empty", got)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Error("Expected zero network calls without a refresh token")
	}
}

func TestGetAccessTokenRefreshSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"NEW","refresh_token":"NEWR","expires_in":21600}`))
	}))
	defer server.Close()
	pointAPIAt(t, server.URL)

	state := session.NewState()
	state.SetTokens("stale", "OLDR", time.Now().Unix()-10)
	state.SetValue("cart_items", "3")

	lower := time.Now().Unix()
	got := newManager().GetAccessToken(context.Background(), state)
	upper := time.Now().Unix()

	if got != "NEW" {
		t.Errorf("Got token %q, want NEW", got)
	}
	if state.AccessToken != "NEW" {
		t.Errorf("Session access token = %q, want NEW", state.AccessToken)
	}
	if state.RefreshToken != "NEWR" {
		t.Errorf("Session refresh token = %q, want NEWR", state.RefreshToken)
	}
	if state.ExpiresAt < lower+21600-ExpirySkewSeconds || state.ExpiresAt > upper+21600-ExpirySkewSeconds {
		t.Errorf("ExpiresAt %d outside skewed bounds", state.ExpiresAt)
	}
	if state.ExpiresAt <= time.Now().Unix() {
		t.Error("Refreshed expiry must be in the future")
	}
	if state.Value("cart_items") != "3" {
		t.Error("Unrelated session values must be untouched by refresh")
	}
}

func TestGetAccessTokenRefreshKeepsOldRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"NEW","expires_in":21600}`))
	}))
	defer server.Close()
	pointAPIAt(t, server.URL)

	state := session.NewState()
	state.SetTokens("stale", "OLDR", time.Now().Unix()-10)

	if got := newManager().GetAccessToken(context.Background(), state); got != "NEW" {
		t.Errorf("Got token %q, want NEW", got)
	}
	if state.RefreshToken != "OLDR" {
		t.Errorf("Refresh token = %q, want the existing OLDR kept", state.RefreshToken)
	}
}

func TestGetAccessTokenRefreshFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		close   bool
	}{
		{
			name: "HTTP error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "denied", http.StatusBadRequest)
			},
		},
		{
			name: "malformed success body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"expires_in":3600}`))
			},
		},
		{
			name:    "transport failure",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			close:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			if tt.close {
				server.Close()
			} else {
				defer server.Close()
			}
			pointAPIAt(t, server.URL)

			state := session.NewState()
			state.SetTokens("stale", "OLDR", time.Now().Unix()-10)
			state.SetValue("cart_items", "3")

			if got := newManager().GetAccessToken(context.Background(), state); got != "" {
				t.Errorf("Got token %q, want empty on refresh failure", got)
			}

			if state.AccessToken != "" || state.RefreshToken != "" || state.ExpiresAt != 0 {
				t.Errorf("All three auth fields must be cleared, got %+v", state)
			}
			if state.Value("cart_items") != "3" {
				t.Error("Unrelated session values must survive a failed refresh")
			}

			flashes := state.PopFlashes()
			if len(flashes) != 1 || flashes[0].Message != "Your session has expired. Please log in again." {
				t.Errorf("Expected session-expired advisory, got %+v", flashes)
			}
		})
	}
}

func TestExpiryFrom(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	if got := ExpiryFrom(now, 3600); got != 1_700_000_000+3600-60 {
		t.Errorf("ExpiryFrom() = %d, want %d", got, 1_700_000_000+3600-60)
	}
}
