package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"server-swamp/internal/auth"
	"server-swamp/internal/config"
	"server-swamp/internal/database"
	"server-swamp/internal/engine"
	"server-swamp/internal/engine/actors"
	"server-swamp/internal/handlers"
	"server-swamp/internal/middleware"
	"server-swamp/internal/stats"
	"server-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	prober := stats.NewA2SProber(cfg.Stats.ProbeTimeout)

	directoryEngine := engine.NewEngine(system, db, prober, engine.Options{
		VoteCooldown: cfg.Voting.Cooldown,
		ProbeTimeout: cfg.Stats.ProbeTimeout,
	}, metrics)

	authService := auth.NewService(db, cfg.AdminEmail)
	jwtMiddleware := middleware.NewJWT(cfg.JWTSecret)

	server := handlers.NewServer(system, directoryEngine, authService, jwtMiddleware, metrics, db)

	// Periodic liveness sweep over approved listings.
	go func() {
		system.Root.Send(directoryEngine.GetStatsActor(), &actors.RefreshAllMsg{})
		ticker := time.NewTicker(cfg.Stats.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				system.Root.Send(directoryEngine.GetStatsActor(), &actors.RefreshAllMsg{})
			}
		}
	}()

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	handler := middleware.CORSMiddleware(corsConfig)(server.Routes())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	go func() {
		log.Printf("Starting server on %s", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
}
