package meli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/config"
)

const (
	grantTypeAuthorizationCode = "authorization_code"
	grantTypeRefreshToken      = "refresh_token"
)

// Client talks to the Mercado Libre REST API: the OAuth token endpoint and
// the site search endpoint. Base URLs are read from config per call so tests
// can point the client at a local server.
type Client struct {
	httpClient *http.Client
}

// TokenResponse is the token endpoint's success body. It is external input:
// callers must not use it before the client has validated the required fields.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Product is a single search result
type Product struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	CurrencyID string  `json:"currency_id"`
	Thumbnail  string  `json:"thumbnail"`
	Permalink  string  `json:"permalink"`
	Condition  string  `json:"condition"`
}

// Paging carries the search pagination metadata
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SearchResponse is the search endpoint's success body
type SearchResponse struct {
	Results []Product `json:"results"`
	Paging  Paging    `json:"paging"`
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// AuthorizationURL builds the provider consent page URL for the
// authorization-code flow
func (c *Client) AuthorizationURL(clientID, redirectURI string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", clientID)
	params.Set("redirect_uri", redirectURI)
	return fmt.Sprintf("%s/authorization?%s", config.GetMeliAuthBaseURL(), params.Encode())
}

// ExchangeCode trades a one-time authorization code for an access and
// refresh token pair
func (c *Client) ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*TokenResponse, error) {
	return c.requestToken(ctx, tokenRequest{
		GrantType:    grantTypeAuthorizationCode,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Code:         code,
		RedirectURI:  redirectURI,
	})
}

// Refresh mints a new access token from a refresh token
func (c *Client) Refresh(ctx context.Context, refreshToken, clientID, clientSecret string) (*TokenResponse, error) {
	return c.requestToken(ctx, tokenRequest{
		GrantType:    grantTypeRefreshToken,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	})
}

func (c *Client) requestToken(ctx context.Context, req tokenRequest) (*TokenResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, invalidError(fmt.Sprintf("failed to marshal token request: %v", err))
	}

	tokenURL := fmt.Sprintf("%s/oauth/token", config.GetMeliAPIBaseURL())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, transportError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("grant_type", req.GrantType).Msg("Token request failed")
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(tokenErrorMessage(resp))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		log.Error().Err(err).Msg("Failed to decode token response")
		return nil, invalidError("Malformed response from API")
	}

	if tokenResp.AccessToken == "" || tokenResp.ExpiresIn <= 0 {
		log.Error().Str("grant_type", req.GrantType).Msg("Token response missing required fields")
		return nil, invalidError("Malformed response from API")
	}

	return &tokenResp, nil
}

// tokenErrorMessage extracts a message from a failed token endpoint response.
// The marketplace reports errors as JSON with a "message" field; when the body
// is absent or not JSON the generic status description is used instead.
func tokenErrorMessage(resp *http.Response) string {
	fallback := fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}

	var errorBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errorBody); err != nil || errorBody.Message == "" {
		return fallback
	}
	return errorBody.Message
}

// Search queries the marketplace catalog with the given bearer token.
// An empty or whitespace-only query fails locally without a network call.
func (c *Client) Search(ctx context.Context, query, accessToken, siteID, sort string, offset, limit int) (*SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidError("Search query cannot be empty.")
	}

	searchURL := fmt.Sprintf("%s/sites/%s/search", config.GetMeliAPIBaseURL(), siteID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, transportError(err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", sort)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	httpReq.URL.RawQuery = params.Encode()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Search request failed")
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(fmt.Sprintf("search endpoint returned status %d", resp.StatusCode))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		log.Error().Err(err).Msg("Failed to decode search response")
		return nil, invalidError("failed to decode search response")
	}

	return &searchResp, nil
}
