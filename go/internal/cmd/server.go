package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(config *Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{config.Server.CORSOrigin},
		AllowedHeaders: []string{"*"},
	})

	// Register HTTP endpoints and the WebSocket upgrade route
	registerRoutes(mux, services)

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Server.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerRoutes(mux *http.ServeMux, services *Services) {
	services.Handler.RegisterRoutes(mux)

	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		stats := services.Coordinator.CurrentStats()
		writeJSON(w, map[string]any{
			"status": "ok",
			"rooms":  stats.Rooms,
			// Sockets, not sessions: idle connections that never
			// joined a room still count as alive here.
			"connections":      services.Manager.ConnectionCount(),
			"battlesCompleted": stats.BattlesCompleted,
			"uptime":           stats.UptimeSeconds,
		})
	}
	mux.HandleFunc("/api/health", healthHandler)
	// Old clients still probe the unprefixed path.
	mux.HandleFunc("/health", healthHandler)

	mux.HandleFunc("/api/rooms", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"rooms": services.Coordinator.AllRooms(),
		})
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
