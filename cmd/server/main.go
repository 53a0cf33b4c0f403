package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bayou-blog/internal/audit"
	"bayou-blog/internal/config"
	"bayou-blog/internal/database"
	"bayou-blog/internal/engine"
	"bayou-blog/internal/handlers"
	"bayou-blog/internal/middleware"
	"bayou-blog/internal/utils"
	"bayou-blog/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to store", "type", cfg.Database.Type, "error", err)
		os.Exit(1)
	}
	defer store.Close(ctx)
	slog.Info("store connected", "type", cfg.Database.Type)

	metrics := utils.NewMetricsCollector()
	auditor := audit.NewRecorder(cfg.AuditLogPath)

	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, store, auditor, metrics)

	auth := middleware.NewAuth(cfg.Auth.JWTSecret)
	server := handlers.NewServer(system, eng, auth, auditor, store, metrics, hub)
	server.MetricsEnabled = cfg.Server.MetricsEnabled

	authLimiter := middleware.NewRateLimiter(10, 5)
	cors := middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))

	var handler http.Handler = server.Routes(authLimiter)
	handler = cors(handler)
	handler = server.Recover(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	switch cfg.Database.Type {
	case "mongo":
		return database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	case "postgres":
		return database.NewPostgresDB(cfg.Database.URI)
	case "memory":
		return database.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
	}
}
