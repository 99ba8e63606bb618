package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edustack.io/learning-tutor/internal/api"
	"edustack.io/learning-tutor/internal/config"
	"edustack.io/learning-tutor/internal/core"
	"edustack.io/learning-tutor/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize LLM backend. Model selection happens once here; a missing
	// key or unreachable backend means template-only mode, not a failure.
	llmService := core.NewLLMService()
	defer llmService.Close()

	if llmService.Available() {
		log.Printf("Ready with generation model: %s", llmService.ModelName())
	} else {
		log.Println("No generation model available, serving template content")
	}

	// Initialize the generation orchestrator
	generator := core.NewGeneratorService(dbStore, llmService, core.GenerationOptions{
		MaxOutputTokens: config.AppConfig.MaxOutputTokens,
		Temperature:     config.AppConfig.Temperature,
		Timeout:         config.AppConfig.GenerationTimeout,
	})

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(generator, dbStore, llmService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Generation calls can take up to the timeout ceiling
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish before forcing the exit.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
