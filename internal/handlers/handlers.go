package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/infrastructure/redis"
	"github.com/ecomeli/verde/internal/services/session"
	"github.com/ecomeli/verde/internal/services/storefront"
	"github.com/ecomeli/verde/pkg/httpext"
)

// HandleHome renders the landing page
func HandleHome(sessions *session.Service, w http.ResponseWriter, r *http.Request) {
	sessionID, state, err := sessions.Begin(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	flashes := state.PopFlashes()
	if err := sessions.Save(r.Context(), sessionID, state); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
	}

	renderHome(w, flashes)
}

// HandleProducts runs the search flow and renders the product list, or
// redirects to login when the session has no usable token
func HandleProducts(sessions *session.Service, store *storefront.Service, w http.ResponseWriter, r *http.Request) {
	sessionID, state, err := sessions.Begin(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query().Get("q")
	sort := r.URL.Query().Get("sort")
	page := r.URL.Query().Get("page")

	outcome := store.ViewProducts(r.Context(), state, query, sort, page)
	finish(sessions, sessionID, state, outcome, w, r)
}

// HandleLogin redirects the user to the marketplace authorization page
func HandleLogin(sessions *session.Service, store *storefront.Service, w http.ResponseWriter, r *http.Request) {
	sessionID, state, err := sessions.Begin(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	outcome := store.InitiateLogin(state)
	finish(sessions, sessionID, state, outcome, w, r)
}

// HandleCallback receives the provider redirect and exchanges the
// authorization code for tokens
func HandleCallback(sessions *session.Service, store *storefront.Service, w http.ResponseWriter, r *http.Request) {
	sessionID, state, err := sessions.Begin(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	code := r.URL.Query().Get("code")

	outcome := store.HandleCallback(r.Context(), state, code)
	finish(sessions, sessionID, state, outcome, w, r)
}

// HandleLogout clears the session's auth state and returns home
func HandleLogout(sessions *session.Service, store *storefront.Service, w http.ResponseWriter, r *http.Request) {
	sessionID, state, err := sessions.Begin(w, r)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	outcome := store.Logout(state)
	finish(sessions, sessionID, state, outcome, w, r)
}

// HandleHealth reports process health and the session storage backend
func HandleHealth(redisService *redis.Service, w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":   "ok",
		"sessions": "memory",
	}

	if redisService != nil {
		if err := redisService.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["sessions"] = "unreachable"
		} else {
			status["sessions"] = "redis"
		}
	}

	httpext.JSON(w, http.StatusOK, status)
}

// finish saves the session and translates an orchestrator outcome into an
// HTTP response. Flashes queued during the request stay in the session across
// redirects and are drained when a page is rendered.
func finish(sessions *session.Service, sessionID string, state *session.State, outcome storefront.Outcome, w http.ResponseWriter, r *http.Request) {
	if outcome.Redirect != "" {
		if err := sessions.Save(r.Context(), sessionID, state); err != nil {
			log.Error().Err(err).Msg("Failed to save session")
		}
		http.Redirect(w, r, outcome.Redirect, http.StatusFound)
		return
	}

	flashes := state.PopFlashes()
	if err := sessions.Save(r.Context(), sessionID, state); err != nil {
		log.Error().Err(err).Msg("Failed to save session")
	}

	if outcome.Products != nil {
		renderProducts(w, flashes, outcome.Products)
		return
	}

	renderHome(w, flashes)
}
