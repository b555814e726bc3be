package main

import (
	"log"

	"github.com/emilythestrangee/electrify/backend/internal/config"
	"github.com/emilythestrangee/electrify/backend/internal/server"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
