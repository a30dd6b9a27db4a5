// package tasks implements favorites operations that fan out over the movie catalog.
//
// The core abstraction is FavoritesExporter, which fetches full movie records for a list of favorite ids and writes them to disk.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/worlder/internal/formatter"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/services"
	"github.com/desertthunder/worlder/internal/shared"
)

const (
	DefaultWorkers   = 5
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
)

// Recorder receives the outcome of every movie processed by an export.
type Recorder interface {
	RecordExport(ok bool)
}

// MovieResult is the outcome of collecting one favorite.
type MovieResult struct {
	MovieID int
	Title   string
	Record  *models.MovieRecord // nil when the detail fetch failed
	Poster  string              // local poster path, if downloaded
	Success bool
	Error   error

	index int
}

// CollectOpts configures [FavoritesExporter.Collect].
type CollectOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Detail requests per second (default: 5)
	PosterDir  string  // Download posters here when set

	// ImageURL builds poster URLs (default: [services.ImageURL]).
	ImageURL func(path *string, size services.ImageSize) string
}

// ExportOpts contains configuration for favorites exports.
type ExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt
	OutputDir  string           // Output directory (default: favorites_export_{epoch})
	NumWorkers int
	RateLimit  float64
	Posters    bool   // Download posters into {OutputDir}/posters
	UserID     string // Recorded on the export document

	ImageURL func(path *string, size services.ImageSize) string
}

// ExportResult summarises an export run.
type ExportResult struct {
	TotalMovies     int
	Successful      int
	Failed          int
	OutputDirectory string
	Files           []string
	ManifestPath    string
	Results         []MovieResult
}

// FavoritesExporter fetches favorite movie records from a [services.Catalog].
type FavoritesExporter struct {
	catalog  services.Catalog
	recorder Recorder
	logger   *log.Logger
	now      func() time.Time
}

// NewFavoritesExporter creates an exporter. recorder may be nil.
func NewFavoritesExporter(catalog services.Catalog, recorder Recorder, logger *log.Logger) *FavoritesExporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FavoritesExporter{catalog: catalog, recorder: recorder, logger: logger, now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *FavoritesExporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *FavoritesExporter) record(ok bool) {
	if e.recorder != nil {
		e.recorder.RecordExport(ok)
	}
}

func (o *CollectOpts) applyDefaults() {
	if o.NumWorkers <= 0 {
		o.NumWorkers = DefaultWorkers
	}
	if o.NumWorkers > MaxWorkers {
		o.NumWorkers = MaxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultRateLimit
	}
	if o.ImageURL == nil {
		o.ImageURL = services.ImageURL
	}
}
