package session

import "time"

// Flash is a one-shot advisory message queued for the next rendered page
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// State is the per-user session state. The three auth fields are owned by the
// token lifecycle: SetTokens and ClearAuth are the only ways they change, and
// they always change together. Values is caller-owned and never touched by
// auth mutation.
type State struct {
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	ExpiresAt    int64             `json:"expires_at,omitempty"`
	Values       map[string]string `json:"values,omitempty"`
	Flashes      []Flash           `json:"flashes,omitempty"`
}

func NewState() *State {
	return &State{}
}

// SetTokens overwrites the three auth fields together
func (s *State) SetTokens(accessToken, refreshToken string, expiresAt int64) {
	s.AccessToken = accessToken
	s.RefreshToken = refreshToken
	s.ExpiresAt = expiresAt
}

// ClearAuth removes exactly the three auth fields, leaving Values and
// Flashes untouched
func (s *State) ClearAuth() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.ExpiresAt = 0
}

// TokenFresh reports whether a cached access token is present and not yet
// expired at the given instant
func (s *State) TokenFresh(now time.Time) bool {
	return s.AccessToken != "" && s.ExpiresAt != 0 && now.Unix() < s.ExpiresAt
}

// AddFlash queues an advisory message for the next rendered page
func (s *State) AddFlash(message, category string) {
	s.Flashes = append(s.Flashes, Flash{Message: message, Category: category})
}

// PopFlashes returns the queued messages in order and empties the queue
func (s *State) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// SetValue stores a caller-owned key
func (s *State) SetValue(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = value
}

// Value reads a caller-owned key
func (s *State) Value(key string) string {
	return s.Values[key]
}
