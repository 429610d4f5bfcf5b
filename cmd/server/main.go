package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/iudanet/txtpresence/internal/config"
	"github.com/iudanet/txtpresence/internal/discovery"
	"github.com/iudanet/txtpresence/internal/server"
	"github.com/iudanet/txtpresence/internal/server/hub"
	"github.com/iudanet/txtpresence/internal/server/middleware"
	"github.com/iudanet/txtpresence/internal/server/storage"
	"github.com/iudanet/txtpresence/internal/server/storage/postgres"
	"github.com/iudanet/txtpresence/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

type documentStore interface {
	storage.DocumentStorage
	Close() error
}

func openStorage(ctx context.Context, cfg config.Server) (documentStore, error) {
	if cfg.Storage == config.StoragePostgres {
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	return sqlite.New(ctx, cfg.DBPath)
}

func run(cfg config.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Relay server starting", "version", Version, "addr", cfg.Addr, "storage", cfg.Storage)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	// Без Redis сервер работает как единственный экземпляр
	var bus hub.Bus
	if cfg.RedisAddr != "" {
		redisBus, err := hub.NewRedisBus(ctx, cfg.RedisAddr, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisBus.Close(); err != nil {
				logger.Error("Failed to close redis bus", "error", err)
			}
		}()
		bus = redisBus
		logger.Info("Cross-instance fan-out enabled", "redis", cfg.RedisAddr)
	}

	relay := hub.New(store, bus, logger)
	limiter := middleware.NewRateLimiter(cfg.CreateRate, cfg.CreateBurst, logger)
	defer limiter.Stop()

	router := server.NewRouter(server.RouterConfig{
		Logger:  logger,
		Storage: store,
		Relay:   relay,
		Rooms:   relay,
		Limiter: limiter,
		Version: Version,
	})

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if cfg.MDNS {
		advertiser, err := advertise(listener.Addr())
		if err != nil {
			logger.Warn("mDNS advertisement disabled", "error", err)
		} else {
			defer advertiser.Shutdown()
			logger.Info("Advertising on the local network", "service", discovery.ServiceType)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		relay.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Websocket-соединения не отслеживаются http.Server, их закрывает hub
	relay.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func advertise(addr net.Addr) (*discovery.Advertiser, error) {
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	host, err := os.Hostname()
	if err != nil {
		host = "txtpresence"
	}
	return discovery.Advertise(host, port, Version)
}

func printVersion() {
	fmt.Printf("txtpresence relay server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
