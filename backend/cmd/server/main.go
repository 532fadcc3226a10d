package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resultanalyzer/backend/internal/api"
	"resultanalyzer/backend/internal/auth"
	"resultanalyzer/backend/internal/shared"
	"resultanalyzer/backend/internal/store"
)

func main() {
	log.Println("INFO: Starting Result Analyzer backend...")

	// Load environment variables
	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// 1. Load Configuration (validates MONGO_URI and JWT_SECRET are present)
	cfg, err := shared.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := shared.ValidateServerConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	shared.PrintConfig(cfg)

	// 2. Connect to MongoDB
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := shared.EnsureIndexes(indexCtx, db); err != nil {
		log.Printf("Warning: failed to ensure indexes: %v", err)
	}
	indexCancel()

	// 3. Initialize Services
	authService := auth.NewService(db, cfg.Security)
	dataStore := store.New(db)

	// 4. Setup Routes and Middleware
	router := api.SetupRoutes(&api.Deps{
		Auth:   authService,
		Store:  dataStore,
		Config: cfg,
	})

	// 5. Configure Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Result Analyzer listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down Result Analyzer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if err := shared.DisconnectMongoDB(client); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
	log.Println("INFO: Result Analyzer stopped.")
}
