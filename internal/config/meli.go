package config

import "github.com/rs/zerolog/log"

// Marketplace credentials are read at point of use rather than cached at
// startup so that runtime reconfiguration is honoured.

// GetMeliClientID returns the Mercado Libre application client ID
func GetMeliClientID() string {
	value := GetEnvOrDefault("MELI_CLIENT_ID", "")
	if value == "" {
		log.Warn().Msg("MELI_CLIENT_ID is not set")
	}
	return value
}

// GetMeliClientSecret returns the Mercado Libre application client secret
func GetMeliClientSecret() string {
	value := GetEnvOrDefault("MELI_CLIENT_SECRET", "")
	if value == "" {
		log.Warn().Msg("MELI_CLIENT_SECRET is not set")
	}
	return value
}

// GetMeliRedirectURI returns the OAuth2 redirect URI registered with the marketplace
func GetMeliRedirectURI() string {
	value := GetEnvOrDefault("MELI_REDIRECT_URI", "")
	if value == "" {
		log.Warn().Msg("MELI_REDIRECT_URI is not set")
	}
	return value
}

// GetMeliSiteID returns the marketplace site to search within.
// Defaults to "MLA" (Argentina).
func GetMeliSiteID() string {
	return GetEnvOrDefault("MELI_SITE_ID", "MLA")
}

// GetMeliAPIBaseURL returns the base URL for the marketplace REST API
// (token and search endpoints)
func GetMeliAPIBaseURL() string {
	return GetEnvOrDefault("MELI_API_BASE_URL", "https://api.mercadolibre.com")
}

// GetMeliAuthBaseURL returns the base URL for the marketplace authorization pages
func GetMeliAuthBaseURL() string {
	return GetEnvOrDefault("MELI_AUTH_BASE_URL", "https://auth.mercadolibre.com")
}
