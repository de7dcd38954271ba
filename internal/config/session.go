package config

import "sync"

var (
	jwtSecretMu sync.RWMutex
	// JWTSecret is the secret key used to sign session cookies
	// In production, this should be loaded from environment variables
	JWTSecret = []byte(GetEnvOrDefault("SESSION_SECRET", "a-very-secret-key-that-should-be-changed"))

	// SessionCookieName is the name of the session cookie
	// Default to "verde_session" if not set in environment
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "verde_session")
)

// SetJWTSecret temporarily changes the session signing secret and returns a
// function to restore it. This is primarily used for testing
func SetJWTSecret(secret []byte) func() {
	jwtSecretMu.Lock()
	previous := JWTSecret
	JWTSecret = secret
	jwtSecretMu.Unlock()

	return func() {
		jwtSecretMu.Lock()
		JWTSecret = previous
		jwtSecretMu.Unlock()
	}
}

// GetJWTSecret returns the current session signing secret in a thread-safe manner
func GetJWTSecret() []byte {
	jwtSecretMu.RLock()
	defer jwtSecretMu.RUnlock()
	return JWTSecret
}

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	return SessionCookieName
}

// SetSessionCookieName temporarily changes the session cookie name and returns
// a function to restore it. This is primarily used for testing
func SetSessionCookieName(name string) func() {
	previous := SessionCookieName
	SessionCookieName = name

	return func() {
		SessionCookieName = previous
	}
}
