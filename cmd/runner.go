package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/metrics"
	"github.com/desertthunder/worlder/internal/services"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/desertthunder/worlder/internal/stores"
	"github.com/desertthunder/worlder/internal/tasks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	provider   services.IdentityProvider
	storage    stores.Storage
	session    *stores.SessionStore
	favorites  *stores.FavoritesStore
	theme      *stores.ThemeStore
	language   *stores.LanguageStore
	exporter   *tasks.FavoritesExporter
	metrics    *metrics.Collector
	gatherer   prometheus.Gatherer
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	started     bool
	offline     bool
	unsubscribe func()
}

const restoreTimeout = 10 * time.Second

// sessionRestorer is implemented by providers that re-verify a stored session before subscribing.
type sessionRestorer interface {
	Restore(ctx context.Context) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Stores are only built when Storage is set, and the session store also needs a Provider.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Provider   services.IdentityProvider
	Storage    stores.Storage
	Remote     stores.DocumentStore
	Metrics    *metrics.Collector
	Gatherer   prometheus.Gatherer
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	var telemetry stores.Telemetry
	var recorder tasks.Recorder
	if opts.Metrics != nil {
		telemetry = opts.Metrics
		recorder = opts.Metrics
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		provider:   opts.Provider,
		storage:    opts.Storage,
		metrics:    opts.Metrics,
		gatherer:   opts.Gatherer,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		exporter:   tasks.NewFavoritesExporter(opts.Catalog, recorder, opts.Logger),
	}

	if opts.Storage == nil {
		return r
	}

	r.favorites = stores.NewFavoritesStore(stores.FavoritesStoreOpts{
		Remote:    opts.Remote,
		Storage:   opts.Storage,
		Telemetry: telemetry,
		Logger:    opts.Logger,
	})
	r.theme = stores.NewThemeStore(opts.Storage, opts.Logger)
	r.language = stores.NewLanguageStore(opts.Storage, opts.Logger)

	if opts.Provider != nil {
		r.session = stores.NewSessionStore(stores.SessionStoreOpts{
			Provider:  opts.Provider,
			Storage:   opts.Storage,
			Favorites: r.favorites,
			Telemetry: telemetry,
			Logger:    opts.Logger,
		})
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, favoritesCommand, prefsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Close releases the provider subscription taken by [Runner.startSession].
func (r *Runner) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// startSession restores the stored session and subscribes the session store to the
// identity provider, once per process. A signed-in provider user reloads favorites from the
// remote document. It reports whether this call did the subscribing.
//
// When the provider cannot verify the stored session, the runner stays offline: the stored
// identity is kept in the loading state and no user id is handed out.
func (r *Runner) startSession(ctx context.Context) bool {
	if r.session == nil || r.started {
		return false
	}
	r.started = true

	if restorer, ok := r.provider.(sessionRestorer); ok {
		restoreCtx, cancel := context.WithTimeout(ctx, restoreTimeout)
		defer cancel()
		if err := restorer.Restore(restoreCtx); err != nil {
			r.offline = true
			r.logger.Warn("identity provider unreachable, using stored session", "state", r.session.State(), "error", err)
			return false
		}
	}

	r.unsubscribe = r.session.Initialize(ctx)
	return true
}

// userID returns the signed-in user's id, or "" for guests.
func (r *Runner) userID(ctx context.Context) string {
	r.startSession(ctx)
	if r.session == nil {
		return ""
	}
	return r.session.UserID()
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: movie catalog not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) requireStores() error {
	if r.storage == nil {
		return fmt.Errorf("%w: local storage not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) requireSession() error {
	if err := r.requireStores(); err != nil {
		return err
	}
	if r.session == nil {
		return fmt.Errorf("%w: identity provider not configured (set identity.api_key or FIREBASE_API_KEY)", shared.ErrMissingCredentials)
	}
	return nil
}

// imageURL builds poster URLs against the configured image host when the catalog is the REST client.
func (r *Runner) imageURL(path *string, size services.ImageSize) string {
	if c, ok := r.catalog.(*services.CatalogClient); ok {
		return c.ImageURL(path, size)
	}
	return services.ImageURL(path, size)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
