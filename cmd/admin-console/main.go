package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsdeck/admin-console/internal/api"
	"github.com/opsdeck/admin-console/internal/backend"
	"github.com/opsdeck/admin-console/internal/core/service"
	"github.com/opsdeck/admin-console/internal/infrastructure/config"
	mongodb "github.com/opsdeck/admin-console/internal/infrastructure/db/mongo"
	redisdb "github.com/opsdeck/admin-console/internal/infrastructure/db/redis"
	"github.com/opsdeck/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer rdb.Close()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// --- Session core ---
	store := redisdb.NewSessionStore(rdb, log)
	audit := mongodb.NewAuditRepository(db)
	client := backend.NewClient(cfg.Backend.BaseURL, store, cfg.Backend.Timeout, log)
	sessions := service.NewSessionManager(store, client, audit, log)

	// Resolve the persisted session in the background; guards serve the
	// pending state until it lands.
	go sessions.Initialize(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Sessions:   sessions,
		Backend:    client,
		Audit:      audit,
		Redis:      rdb,
		Mongo:      db,
		BackendURL: cfg.Backend.BaseURL,
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.BaseURL).Msg("admin console listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}
