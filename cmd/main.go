package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ecomeli/verde/internal/config"
	"github.com/ecomeli/verde/internal/handlers"
	"github.com/ecomeli/verde/internal/infrastructure/meli"
	"github.com/ecomeli/verde/internal/infrastructure/redis"
	"github.com/ecomeli/verde/internal/logger"
	"github.com/ecomeli/verde/internal/services/session"
	"github.com/ecomeli/verde/internal/services/storefront"
	"github.com/ecomeli/verde/internal/services/token"
)

func main() {
	logger.Setup()

	// Credentials are re-read at point of use; this check only produces a
	// helpful startup warning
	if config.GetMeliClientID() == "" || config.GetMeliClientSecret() == "" || config.GetMeliRedirectURI() == "" {
		log.Warn().Msg("Marketplace credentials (MELI_CLIENT_ID, MELI_CLIENT_SECRET, MELI_REDIRECT_URI) are not set; the application will run but authentication will fail")
	}

	redisService := redis.NewService()
	sessions := session.NewService(redisService)
	meliClient := meli.NewClient()
	tokens := token.NewManager(meliClient)
	store := storefront.NewService(meliClient, tokens)

	router := handlers.NewRouter(sessions, store, redisService)

	addr := ":" + config.GetEnvOrDefault("PORT", "8080")
	log.Info().Str("addr", addr).Msg("Server starting")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("ListenAndServe error")
	}
}
