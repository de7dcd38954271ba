package token

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/config"
	"github.com/ecomeli/verde/internal/infrastructure/meli"
	"github.com/ecomeli/verde/internal/services/session"
)

// ExpirySkewSeconds is subtracted from a token's nominal lifetime so a token
// is never used once the marketplace may already consider it expired
const ExpirySkewSeconds = 60

// ExpiryFrom computes the stored expiry instant for a token issued now with
// the given expires_in
func ExpiryFrom(now time.Time, expiresIn int) int64 {
	return now.Unix() + int64(expiresIn) - ExpirySkewSeconds
}

// Manager owns the session's access token lifecycle: serving cached tokens
// while fresh, refreshing stale ones, and clearing auth state when a refresh
// fails
type Manager struct {
	meli *meli.Client
}

func NewManager(client *meli.Client) *Manager {
	return &Manager{meli: client}
}

// GetAccessToken returns a usable access token for the session, or an empty
// string when none can be obtained. A fresh cached token is returned without
// any network call or mutation. A stale token with a stored refresh token
// triggers one refresh attempt: on success all three auth fields are
// overwritten in place; on any failure (transport, non-2xx, or malformed
// success body) the three auth fields are removed together and the user is
// advised to log in again. Failures never propagate to the caller.
func (m *Manager) GetAccessToken(ctx context.Context, state *session.State) string {
	if state.TokenFresh(time.Now()) {
		return state.AccessToken
	}

	if state.RefreshToken == "" {
		return ""
	}

	log.Info().Msg("Access token expired or missing, attempting refresh")

	// Credentials are read at time of use
	clientID := config.GetMeliClientID()
	clientSecret := config.GetMeliClientSecret()

	tokenResp, err := m.meli.Refresh(ctx, state.RefreshToken, clientID, clientSecret)
	if err != nil {
		log.Error().Err(err).Msg("Token refresh failed, clearing session auth state")
		state.ClearAuth()
		state.AddFlash("Your session has expired. Please log in again.", "warning")
		return ""
	}

	// The marketplace may omit the refresh token on renewal; keep the
	// existing one in that case
	refreshToken := tokenResp.RefreshToken
	if refreshToken == "" {
		refreshToken = state.RefreshToken
	}

	state.SetTokens(tokenResp.AccessToken, refreshToken, ExpiryFrom(time.Now(), tokenResp.ExpiresIn))

	log.Info().Msg("Token refreshed successfully")
	return state.AccessToken
}
