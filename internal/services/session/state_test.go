package session

import (
	"testing"
	"time"
)

func TestStateAuthFields(t *testing.T) {
	t.Run("set and clear move together", func(t *testing.T) {
		state := NewState()
		state.SetTokens("A", "R", 12345)

		if state.AccessToken != "A" || state.RefreshToken != "R" || state.ExpiresAt != 12345 {
			t.Errorf("SetTokens did not store all three fields: %+v", state)
		}

		state.ClearAuth()
		if state.AccessToken != "" || state.RefreshToken != "" || state.ExpiresAt != 0 {
			t.Errorf("ClearAuth left auth fields behind: %+v", state)
		}
	})

	t.Run("auth mutation leaves caller-owned values untouched", func(t *testing.T) {
		state := NewState()
		state.SetValue("cart_items", "2")
		state.SetValue("theme", "dark")
		state.AddFlash("hello", "success")

		state.SetTokens("A", "R", 12345)
		state.ClearAuth()

		if state.Value("cart_items") != "2" || state.Value("theme") != "dark" {
			t.Errorf("Caller-owned values changed: %+v", state.Values)
		}
		if len(state.Flashes) != 1 {
			t.Errorf("Flash queue changed: %+v", state.Flashes)
		}
	})
}

func TestStateTokenFresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"future expiry", State{AccessToken: "A", ExpiresAt: now.Unix() + 60}, true},
		{"past expiry", State{AccessToken: "A", ExpiresAt: now.Unix() - 60}, false},
		{"expiry equals now", State{AccessToken: "A", ExpiresAt: now.Unix()}, false},
		{"no token", State{ExpiresAt: now.Unix() + 60}, false},
		{"no expiry", State{AccessToken: "A"}, false},
		{"empty state", State{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.TokenFresh(now); got != tt.want {
				t.Errorf("TokenFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateFlashes(t *testing.T) {
	state := NewState()
	state.AddFlash("first", "warning")
	state.AddFlash("second", "danger")

	flashes := state.PopFlashes()
	if len(flashes) != 2 {
		t.Fatalf("Got %d flashes, want 2", len(flashes))
	}
	if flashes[0].Message != "first" || flashes[0].Category != "warning" {
		t.Errorf("First flash out of order: %+v", flashes[0])
	}
	if flashes[1].Message != "second" || flashes[1].Category != "danger" {
		t.Errorf("Second flash out of order: %+v", flashes[1])
	}

	if again := state.PopFlashes(); len(again) != 0 {
		t.Errorf("Expected empty queue after pop, got %+v", again)
	}
}
