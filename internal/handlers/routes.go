package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecomeli/verde/internal/infrastructure/redis"
	"github.com/ecomeli/verde/internal/services/session"
	"github.com/ecomeli/verde/internal/services/storefront"
)

// NewRouter wires the application routes to their handlers
func NewRouter(sessions *session.Service, store *storefront.Service, redisService *redis.Service) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		HandleHome(sessions, w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/products", func(w http.ResponseWriter, req *http.Request) {
		HandleProducts(sessions, store, w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/login", func(w http.ResponseWriter, req *http.Request) {
		HandleLogin(sessions, store, w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/callback", func(w http.ResponseWriter, req *http.Request) {
		HandleCallback(sessions, store, w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/logout", func(w http.ResponseWriter, req *http.Request) {
		HandleLogout(sessions, store, w, req)
	}).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		HandleHealth(redisService, w, req)
	}).Methods(http.MethodGet)

	return r
}
