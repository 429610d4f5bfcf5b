package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/txtpresence/internal/client/cli"
	"github.com/iudanet/txtpresence/internal/client/iocli"
	"github.com/iudanet/txtpresence/internal/client/storage"
	"github.com/iudanet/txtpresence/internal/client/storage/boltdb"
	"github.com/iudanet/txtpresence/internal/config"
	"github.com/iudanet/txtpresence/internal/discovery"
	"github.com/iudanet/txtpresence/internal/docref"
	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/presence"
	"github.com/iudanet/txtpresence/internal/replica"
	"github.com/iudanet/txtpresence/internal/replica/memory"
	"github.com/iudanet/txtpresence/internal/replica/wsrepo"
	"github.com/iudanet/txtpresence/internal/validation"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.ParseClient(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		os.Exit(0)
	}

	// Логи идут в stderr, чтобы не смешиваться с выводом команд
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Client, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	peerName, err := resolvePeerName(ctx, boltStorage, cfg.PeerName)
	if err != nil {
		return err
	}
	logger = logger.With("peer_id", peerName)

	if cfg.Locator != "" {
		if err := boltStorage.SetLocator(ctx, cfg.Locator); err != nil {
			return fmt.Errorf("failed to store locator: %w", err)
		}
	}

	repo, err := newRepo(cfg, peerName, logger)
	if err != nil {
		return err
	}

	session := presence.NewSession(presence.Config{
		TTL:               cfg.PresenceTTL,
		BroadcastInterval: cfg.BroadcastInterval,
	}, logger)
	sessionCtx, stopSession := context.WithCancel(ctx)
	go func() {
		if err := session.Run(sessionCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Presence session stopped", "error", err)
		}
	}()
	defer func() {
		stopSession()
		<-session.Done()
	}()

	session.OnRender(func(set models.DecorationSet) {
		logger.Debug("Remote selections changed", "decorations", len(set))
	})

	resolver := docref.NewResolver(repo, boltStorage, cfg.ReadyTimeout, logger)
	defer func() {
		if err := resolver.Close(); err != nil {
			logger.Error("Failed to close document", "error", err)
		}
	}()
	resolver.Subscribe(func(h replica.Handle) {
		if err := session.Switch(h); err != nil {
			logger.Warn("Failed to switch presence session", "locator", h.Locator(), "error", err)
		}
	})
	if err := resolver.Start(ctx); err != nil {
		// Клиент остается рабочим: open и new переключают документ позже
		logger.Warn("Failed to open document", "error", err)
	}

	terminal := iocli.NewStdio()
	c := cli.New(cli.Config{
		IO:        terminal,
		Presence:  session,
		Documents: resolver,
		Store:     boltStorage,
		Browse:    discovery.Browse,
		Logger:    logger,
		PeerName:  peerName,
	})
	return c.Run(ctx)
}

// resolvePeerName выбирает имя из флага или env, затем сохраненное, иначе генерирует новое
func resolvePeerName(ctx context.Context, profiles storage.ProfileStorage, requested string) (string, error) {
	if requested != "" {
		if err := validation.ValidatePeerName(requested); err != nil {
			return "", err
		}
		if err := profiles.SavePeerName(ctx, requested); err != nil {
			return "", fmt.Errorf("failed to save peer name: %w", err)
		}
		return requested, nil
	}

	name, err := profiles.GetPeerName(ctx)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, storage.ErrPeerNameNotFound) {
		return "", fmt.Errorf("failed to load peer name: %w", err)
	}

	name = validation.GeneratePeerName()
	if err := profiles.SavePeerName(ctx, name); err != nil {
		return "", fmt.Errorf("failed to save peer name: %w", err)
	}
	return name, nil
}

func newRepo(cfg config.Client, peerName string, logger *slog.Logger) (replica.Repo, error) {
	if cfg.Backend == config.BackendMemory {
		return memory.NewNetwork(logger).Repo(peerName), nil
	}

	repo, err := wsrepo.New(cfg.ServerURL, peerName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create relay client: %w", err)
	}
	return repo, nil
}

func printVersion() {
	fmt.Printf("txtpresence client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
