package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"secondbrain/config"
	"secondbrain/logger"
	"secondbrain/repository"
	"secondbrain/services"
	"secondbrain/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"
)

const readHeaderTimeout = 5 * time.Second

// runServe connects to the stores, builds the router and serves until the
// process is interrupted.
func runServe(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := utils.NewMongoClient(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn(ctx, "disconnect mongodb", logger.Err(err))
		}
	}()
	db := client.Database(cfg.Mongo.Database)

	if cfg.Mongo.EnsureIndexes {
		if err := repository.SetupIndexes(ctx, db, cfg.Mongo.NotesCollection, cfg.Mongo.TasksCollection); err != nil {
			return err
		}
	}

	deps := routerDeps{db: db}
	if cfg.Redis.URL != "" {
		blacklist, err := services.NewTokenBlacklist(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer blacklist.Close()
		deps.blacklist = blacklist
	} else {
		logger.Warn(ctx, "REDIS_URL not set, token revocation disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           setupRouter(cfg, deps),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		logger.Info(ctx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		logger.Info(ctx, "listen and serve",
			slog.String("addr", srv.Addr), slog.String("env", cfg.App.Env))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %w", err)
	}
	return nil
}

// connectDatabase is used by the one-shot commands that only need MongoDB.
func connectDatabase(ctx context.Context, mc config.MongoConfig) (*mongo.Database, func(), error) {
	client, err := utils.NewMongoClient(ctx, mc)
	if err != nil {
		return nil, nil, err
	}
	return client.Database(mc.Database), func() { _ = client.Disconnect(context.Background()) }, nil
}

func mongoHealth(db *mongo.Database) func(context.Context) error {
	return func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	}
}
