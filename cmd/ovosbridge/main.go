// OVOS Bridge - REST gateway for the Open Voice OS message bus
//
// This is the main entry point for the OVOS Bridge application. The
// bridge exposes a synchronous HTTP API over the assistant's
// asynchronous websocket bus, gated by JWT bearer authentication.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartgic/ovos-bridge/internal/api"
	"github.com/smartgic/ovos-bridge/internal/auth"
	"github.com/smartgic/ovos-bridge/internal/bus"
	"github.com/smartgic/ovos-bridge/internal/infrastructure/config"
	"github.com/smartgic/ovos-bridge/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting OVOS Bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Load the user credential store
	users, err := auth.NewStore(cfg.Users.Path)
	if err != nil {
		return fmt.Errorf("loading users database: %w", err)
	}
	log.Info("users database loaded", "path", cfg.Users.Path, "users", users.Count())

	// Token authority
	tokens, err := auth.NewAuthority(auth.Config{
		Secret:     cfg.Security.JWT.Secret,
		Algorithm:  cfg.Security.JWT.Algorithm,
		AccessTTL:  cfg.Security.JWT.GetAccessTTL(),
		RefreshTTL: cfg.Security.JWT.GetRefreshTTL(),
	}, users)
	if err != nil {
		return fmt.Errorf("creating token authority: %w", err)
	}

	// Bus exchanger: one websocket connection per operation, nothing to
	// connect at startup.
	exchanger := bus.NewExchanger(bus.Config{
		URI:            cfg.Bus.URI(),
		ConnectTimeout: cfg.Bus.GetConnectTimeout(),
		ReceiveTimeout: cfg.Bus.GetReceiveTimeout(),
	}, log)
	log.Info("message bus configured", "uri", cfg.Bus.URI())

	// Warn early when the companion skill is unreachable; privileged
	// endpoints will keep probing per request.
	if !exchanger.SkillAvailable(bus.APISkillID) {
		log.Warn("companion skill not reachable at startup",
			"skill", bus.APISkillID,
		)
	}

	// API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		App:     cfg.App,
		Logger:  log,
		Bus:     exchanger,
		Tokens:  tokens,
		Users:   users,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("OVOS Bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses OVOS_BRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("OVOS_BRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
