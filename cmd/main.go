package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/metrics"
	"github.com/desertthunder/worlder/internal/repositories"
	"github.com/desertthunder/worlder/internal/services"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/desertthunder/worlder/internal/stores"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	configPath := os.Getenv("WORLDER_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	config.ApplyEnv()

	ctx := context.Background()
	opts, cleanup, err := buildRunnerOpts(ctx, config, logger)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer cleanup()
	opts.ConfigPath = configPath

	runner := NewRunner(opts)
	defer runner.Close()

	app := &cli.Command{
		Name:     "worlder",
		Usage:    "Browse movies and keep your favorites in sync",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("WORLDER_DEBUG")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		runner.Close()
		cleanup()
		logger.Fatalf("application error: %v", err)
	}
}

// buildRunnerOpts opens local storage and builds the catalog, identity and remote clients from config.
// The returned cleanup closes whatever was opened.
func buildRunnerOpts(ctx context.Context, config *shared.Config, logger *log.Logger) (RunnerOpts, func(), error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	opts := RunnerOpts{Config: config, Logger: logger, HTTPClient: httpClient}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return opts, func() {}, fmt.Errorf("failed to open database: %w", err)
	}
	storage := repositories.NewKeyValueRepository(db)
	opts.Storage = storage

	remote, closeRemote := openRemote(ctx, config.Remote, db, logger)
	opts.Remote = remote
	cleanup := func() {
		closeRemote()
		db.Close()
	}

	opts.Catalog = services.NewCatalogClientFromConfig(config.Catalog, httpClient)

	if config.Telemetry.Enabled {
		reg := prometheus.NewRegistry()
		opts.Metrics = metrics.NewCollector(reg, logger)
		opts.Gatherer = reg
	}

	flow := services.NewBrowserOAuthFlow(config.Identity, config.Server, logger)
	flow.Prompt = func(url string) {
		fmt.Fprintf(os.Stdout, "Open this URL to continue signing in:\n%s\n", url)
	}

	auth, err := services.NewFirebaseAuth(services.FirebaseAuthOpts{
		APIKey:     config.Identity.APIKey,
		BaseURL:    config.Identity.BaseURL,
		TokenURL:   config.Identity.TokenURL,
		HTTPClient: httpClient,
		OAuth:      flow,
		Storage:    storage,
		Logger:     logger,
	})
	if err != nil {
		logger.Debug("sign-in disabled", "error", err)
		return opts, cleanup, nil
	}
	opts.Provider = auth
	return opts, cleanup, nil
}

// openRemote picks the favorites document store named by cfg.Driver.
// An unreachable Redis falls back to the local database.
func openRemote(ctx context.Context, cfg shared.RemoteConfig, db *sql.DB, logger *log.Logger) (stores.DocumentStore, func()) {
	local := repositories.NewSQLiteDocumentStore(db)

	switch cfg.Driver {
	case "", "sqlite":
		return local, func() {}
	case "redis":
		rs := repositories.NewRedisDocumentStore(repositories.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB), cfg.KeyPrefix)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, keeping favorites documents locally", "addr", cfg.Addr, "error", err)
			rs.Close()
			return local, func() {}
		}
		return rs, func() { rs.Close() }
	default:
		logger.Warn("unknown remote driver, using sqlite", "driver", cfg.Driver)
		return local, func() {}
	}
}
