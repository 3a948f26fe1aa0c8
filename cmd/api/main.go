package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "go-parley/cmd/api/router/v1"
	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	cachePort "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/infrastructure/database"
	queueAdapter "go-parley/internal/infrastructure/queue/adapter"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/task"
	"go-parley/internal/pkg/identity/application/session"
	identityAdapter "go-parley/internal/pkg/identity/persistence/repository/adapter"
	"go-parley/internal/pkg/presence"
)

const tokenTTL = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "error", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET environment variable is not set")
		os.Exit(1)
	}

	// Connect to the database on startup.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Presence snapshot cache is best-effort; run without it if Redis is down.
	var cache cachePort.Cache
	if redisCache, err := cacheAdapter.NewRedisAdapter(); err != nil {
		slog.Warn("presence cache disabled", "error", err)
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		slog.Error("failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	identityRepo := identityAdapter.NewPgIdentityRepository(pool)
	gate := session.NewGate([]byte(secret), identityRepo)
	issuer := session.NewIssuer([]byte(secret), tokenTTL)

	registry := realtime.NewRegistry()
	tracker := presence.NewTracker(identityRepo, registry, cache, slog.Default())
	registry.OnChange(tracker.OnRegistryChange)

	// In-process worker: REST-submitted messages run through the same
	// message router as socket-submitted ones.
	worker, err := queueAdapter.NewAsynqServer()
	if err != nil {
		slog.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}
	task.RegisterRouteMessageTask(worker, pool, registry)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		if err := worker.Run(workerCtx); err != nil {
			slog.Error("queue worker stopped", "error", err)
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, queueClient, gate, issuer, registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	stopWorker()
	registry.Close()
}
