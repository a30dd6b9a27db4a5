package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/desertthunder/worlder/internal/metrics"
	"github.com/desertthunder/worlder/internal/server"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/desertthunder/worlder/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive movie browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	if err := r.requireStores(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logFile, err := shared.OpenLogFile(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	r.logger.SetOutput(logFile)
	defer r.logger.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cmd.Bool("metrics") && r.gatherer != nil {
		r.serveMetrics(ctx)
	}

	r.startSession(ctx)

	deps := ui.Deps{
		Catalog:   r.catalog,
		Favorites: r.favorites,
		Theme:     r.theme,
		Language:  r.language,
		Exporter:  r.exporter,
	}
	if r.session != nil {
		deps.Session = r.session
	}

	if err := ui.Run(ctx, deps); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// serveMetrics exposes the Prometheus registry until ctx is done and returns the bound address.
// A busy port only disables the endpoint and yields nil.
func (r *Runner) serveMetrics(ctx context.Context) net.Addr {
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(metrics.NewHandler(r.gatherer))
	router.HandleFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	addr, errs, err := server.Serve(ctx, r.config.Server.Addr(), router)
	if err != nil {
		r.logger.Warn("metrics endpoint disabled", "error", err)
		return nil
	}
	r.logger.Info("serving metrics", "addr", addr.String(), "paths", router.Paths())

	go func() {
		for err := range errs {
			r.logger.Error("metrics server stopped", "error", err)
		}
	}()
	return addr
}
