package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/board-be/internal/api"
	"github.com/isdelr/board-be/internal/auth"
	"github.com/isdelr/board-be/internal/config"
	"github.com/isdelr/board-be/internal/database"
	"github.com/isdelr/board-be/internal/logger"
	"github.com/isdelr/board-be/internal/monitoring"
	"github.com/isdelr/board-be/internal/services"
	"github.com/isdelr/board-be/internal/store"
	"github.com/isdelr/board-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}
	log.Info().Str("dialect", string(db.Dialect)).Msg("Database ready")

	// Set up WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(hubCtx)

	// Set up stores and services
	userStore := store.NewUserStore(db)
	commentStore := store.NewCommentStore(db)
	eventService := services.NewEventService(store.NewEventStore(db))
	userService := services.NewUserService(userStore, eventService)
	authService := services.NewAuthService(userStore, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry))
	postService := services.NewPostService(store.NewPostStore(db), commentStore, eventService)
	commentService := services.NewCommentService(commentStore, postService, eventService, hub)

	// Set up and run the background scheduler
	scheduler, err := monitoring.NewScheduler(db, eventService, monitoring.Options{
		HealthCheckSchedule: cfg.HealthCheckSchedule,
		EventPruneSchedule:  cfg.EventPruneSchedule,
		EventRetention:      cfg.EventRetention,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure scheduler")
	}
	scheduler.Start(ctx)

	// Set up router
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       db,
		Probes:   scheduler,
		Hub:      hub,
		Users:    userService,
		Auth:     authService,
		Posts:    postService,
		Comments: commentService,
		Events:   eventService,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", string(cfg.Env)).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	stopHub()
	<-hub.Done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
