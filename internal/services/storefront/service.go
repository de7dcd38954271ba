package storefront

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/config"
	"github.com/ecomeli/verde/internal/infrastructure/meli"
	"github.com/ecomeli/verde/internal/services/session"
	"github.com/ecomeli/verde/internal/services/token"
)

const (
	// ProductsPerPage is the fixed search page size
	ProductsPerPage = 10

	defaultQuery = "eco-friendly"
	defaultSort  = "relevance"

	// Route targets for redirect outcomes
	PathHome     = "/"
	PathProducts = "/products"
	PathLogin    = "/login"
)

// Outcome tells the route layer what to do after an operation: redirect the
// browser, render the home page, or render the products page with data.
// Exactly one of the three is set. Advisory messages are queued on the
// session state, not carried here.
type Outcome struct {
	Redirect   string
	RenderHome bool
	Products   *ProductsPage
}

// ProductsPage is the render data for the products view
type ProductsPage struct {
	Products []meli.Product
	Query    string
	Sort     string
	Page     int
	Pages    int
}

func redirect(target string) Outcome {
	return Outcome{Redirect: target}
}

// Service sequences the auth and search flows over a single session:
// login redirect, callback exchange, token storage, and token-backed search
type Service struct {
	meli   *meli.Client
	tokens *token.Manager
}

func NewService(client *meli.Client, tokens *token.Manager) *Service {
	return &Service{
		meli:   client,
		tokens: tokens,
	}
}

// ViewProducts runs a catalog search for the session's user. Without a
// usable token the user is sent to the login flow; a failed search renders
// an empty result list with an advisory rather than an error page.
func (s *Service) ViewProducts(ctx context.Context, state *session.State, query, sort, page string) Outcome {
	accessToken := s.tokens.GetAccessToken(ctx, state)
	if accessToken == "" {
		state.AddFlash("You need to be logged in to view products.", "warning")
		return redirect(PathLogin)
	}

	if query == "" {
		query = defaultQuery
	}
	if sort == "" {
		sort = defaultSort
	}
	pageNum := parsePage(page)
	offset := (pageNum - 1) * ProductsPerPage

	result, err := s.meli.Search(ctx, query, accessToken, config.GetMeliSiteID(), sort, offset, ProductsPerPage)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Product search failed")
		state.AddFlash("There was an error searching for products: "+err.Error(), "danger")
		return Outcome{Products: &ProductsPage{
			Query: query,
			Sort:  sort,
			Page:  pageNum,
			Pages: 0,
		}}
	}

	totalPages := (result.Paging.Total + ProductsPerPage - 1) / ProductsPerPage

	return Outcome{Products: &ProductsPage{
		Products: result.Results,
		Query:    query,
		Sort:     sort,
		Page:     pageNum,
		Pages:    totalPages,
	}}
}

// InitiateLogin builds the provider authorization redirect. Credentials are
// read at call time; when any is missing the home page is rendered with an
// advisory instead of redirecting.
func (s *Service) InitiateLogin(state *session.State) Outcome {
	clientID := config.GetMeliClientID()
	clientSecret := config.GetMeliClientSecret()
	redirectURI := config.GetMeliRedirectURI()

	if clientID == "" || clientSecret == "" || redirectURI == "" {
		state.AddFlash("API credentials are not configured on the server.", "danger")
		return Outcome{RenderHome: true}
	}

	return redirect(s.meli.AuthorizationURL(clientID, redirectURI))
}

// HandleCallback exchanges the provider's authorization code for tokens and
// stores them in the session
func (s *Service) HandleCallback(ctx context.Context, state *session.State, code string) Outcome {
	if code == "" {
		state.AddFlash("Authorization code not received.", "danger")
		return redirect(PathHome)
	}

	// Credentials are read at time of use
	clientID := config.GetMeliClientID()
	clientSecret := config.GetMeliClientSecret()
	redirectURI := config.GetMeliRedirectURI()

	tokenResp, err := s.meli.ExchangeCode(ctx, code, clientID, clientSecret, redirectURI)
	if err != nil {
		log.Error().Err(err).Msg("Authorization code exchange failed")
		state.AddFlash("Error during token exchange: "+err.Error(), "danger")
		return redirect(PathHome)
	}

	state.SetTokens(tokenResp.AccessToken, tokenResp.RefreshToken, token.ExpiryFrom(time.Now(), tokenResp.ExpiresIn))
	state.AddFlash("Authentication successful!", "success")

	log.Info().Msg("User authenticated with marketplace")
	return redirect(PathProducts)
}

// Logout clears the session's auth state
func (s *Service) Logout(state *session.State) Outcome {
	state.ClearAuth()
	state.AddFlash("You have been logged out.", "success")
	return redirect(PathHome)
}

// parsePage coerces the page parameter to a positive integer, defaulting to 1
func parsePage(page string) int {
	n, err := strconv.Atoi(page)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
