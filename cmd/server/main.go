package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwbooks/bookmanager/internal/api"
	"github.com/dwbooks/bookmanager/internal/config"
	"github.com/dwbooks/bookmanager/internal/database"
	"github.com/dwbooks/bookmanager/internal/repository"
	"github.com/dwbooks/bookmanager/internal/service"
	"github.com/dwbooks/bookmanager/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Log.Level)

	// Create the schema before anything takes a handle
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.CreateTables(db); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	db.Close()

	// Create the connection pool and repositories
	pool := database.NewPool(cfg.Database.Path, logger)

	books, err := repository.NewBookRepository(cfg, pool, logger)
	if err != nil {
		log.Fatalf("Failed to create book repository: %v", err)
	}
	defer books.Close()

	users, err := repository.NewUserRepository(cfg, pool, logger)
	if err != nil {
		log.Fatalf("Failed to create user repository: %v", err)
	}
	defer users.Close()

	tokens, err := repository.NewTokenRepository(cfg, pool, logger)
	if err != nil {
		log.Fatalf("Failed to create token repository: %v", err)
	}
	defer tokens.Close()

	defer pool.Shutdown()

	// Create service
	svc := service.NewDefaultService(books, users, tokens, cfg.Auth.BcryptCost, logger)

	// Create API handler
	handler := api.NewHandler(svc, logger)

	// Set up Gin router
	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown: %v", err)
	}
}
