package main

import (
	"alcyxob/fitness-community/internal/api"
	"alcyxob/fitness-community/internal/logging"
	"alcyxob/fitness-community/internal/repository"
	"alcyxob/fitness-community/internal/service"
	"alcyxob/fitness-community/internal/session"
	"alcyxob/fitness-community/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	logrus.Info("Starting Fitness Community server...")

	// --- Database ---
	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore(store)

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = store.Migrate(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// --- Sessions ---
	var revocations session.RevocationStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Warn("Redis is not reachable, logged in requests will fail until it is")
		}
		revocations = session.NewRedisRevocationStore(rdb)
	} else {
		logrus.Warn("redis.addr is empty, logout will not revoke session tokens server side")
	}
	sessions, err := session.NewManager(cfg.Session.Secret, cfg.Session.Expiration, revocations)
	if err != nil {
		return err
	}

	// --- Storage ---
	files, err := storage.NewS3Storage(ctx, cfg.S3)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		logrus.Info("s3.bucket_name is empty, plan export is disabled")
		files = nil
	case err != nil:
		return fmt.Errorf("failed to initialize S3 storage: %w", err)
	}

	// --- Services ---
	repos := store.Repositories()
	authService := service.NewAuthService(repos.Users, sessions)
	planService := service.NewPlanService(repos.Plans, files, cfg.S3.PresignExpiry)
	forumService := service.NewForumService(store)

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(logging.Middleware(), gin.Recovery())
	api.SetupRoutes(router,
		api.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure, MaxAge: sessions.Expiration()},
		authService, planService, forumService,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("address", cfg.Server.Address).Info("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logrus.Info("Server exiting")
	return nil
}

func closeStore(store repository.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logrus.WithError(err).Error("Failed to close database")
	}
}
