package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/worlder/internal/formatter"
	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/services"
	"github.com/desertthunder/worlder/internal/shared"
	"golang.org/x/time/rate"
)

type movieJob struct {
	index  int
	detail *models.MovieDetail
}

// Collect fetches the full record of every movie in ids.
//
// Detail requests are paced by a rate limiter in a single producer; credits, videos and posters are fetched by a worker pool.
// The returned slice is in the order of ids. A failed movie is reported in its result and does not stop the run.
// A cancelled ctx aborts the run and its error is returned.
func (e *FavoritesExporter) Collect(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts CollectOpts) ([]MovieResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	opts.applyDefaults()

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan movieJob, len(ids))
	results := make(chan MovieResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.collectWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchingDetailsUpdate(i+1, len(ids), id))
			detail, err := e.catalog.Details(ctx, id)
			if err != nil {
				results <- MovieResult{
					MovieID: id,
					Title:   fmt.Sprintf("Unknown (%d)", id),
					Error:   fmt.Errorf("failed to fetch movie: %w", err),
					index:   i,
				}
				continue
			}

			jobs <- movieJob{index: i, detail: detail}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]MovieResult, len(ids))
	completed := 0
	for res := range results {
		completed++
		ordered[res.index] = res
		e.record(res.Success)

		if res.Success {
			e.sendProgress(prog, movieCompletedUpdate(completed, len(ids), res))
		} else {
			e.logger.Warn("favorite not exported", "movie", res.MovieID, "error", res.Error)
			e.sendProgress(prog, movieFailedUpdate(completed, len(ids), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ordered, nil
}

// collectWorker completes movie records from the jobs channel.
func (e *FavoritesExporter) collectWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan movieJob,
	results chan<- MovieResult,
	opts CollectOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.collectMovie(ctx, job, opts)
	}
}

// collectMovie fetches credits, videos and the poster for one movie.
// Failures here only degrade the record.
func (e *FavoritesExporter) collectMovie(ctx context.Context, j movieJob, opts CollectOpts) MovieResult {
	id := j.detail.ID
	logger := shared.WithLogger(e.logger, "movie", id)

	credits, err := e.catalog.Credits(ctx, id)
	if err != nil {
		logger.Warn("failed to fetch credits", "error", err)
	}

	videos, err := e.catalog.Videos(ctx, id)
	if err != nil {
		logger.Warn("failed to fetch videos", "error", err)
	}

	rec := models.NewMovieRecord(*j.detail, credits, videos)
	res := MovieResult{
		MovieID: id,
		Title:   j.detail.Title,
		Record:  &rec,
		Success: true,
		index:   j.index,
	}

	if opts.PosterDir != "" && j.detail.PosterPath != nil && *j.detail.PosterPath != "" {
		url := opts.ImageURL(j.detail.PosterPath, services.ImageSizeMedium)
		if path, err := formatter.SavePoster(url, opts.PosterDir, id); err != nil {
			logger.Warn("failed to download poster", "error", err)
		} else {
			res.Poster = path
		}
	}
	return res
}

// Export collects every movie in ids and writes them to opts.OutputDir as a single favorites file plus an export_manifest.json.
func (e *FavoritesExporter) Export(ctx context.Context, prog chan<- ProgressUpdate, ids []int, opts ExportOpts) (*ExportResult, error) {
	format, err := formatter.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("favorites_export_%d", e.now().Unix())
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	collect := CollectOpts{NumWorkers: opts.NumWorkers, RateLimit: opts.RateLimit, ImageURL: opts.ImageURL}
	if opts.Posters {
		collect.PosterDir = filepath.Join(opts.OutputDir, "posters")
	}

	results, err := e.Collect(ctx, prog, ids, collect)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		TotalMovies:     len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         results,
	}

	export := &models.FavoritesExport{UserID: opts.UserID, ExportedAt: e.now(), Movies: []models.MovieRecord{}}
	manifest := &formatter.Manifest{
		ExportedAt:  export.ExportedAt,
		Format:      format,
		TotalMovies: len(ids),
		Files:       []string{},
		Movies:      make([]formatter.ManifestEntry, 0, len(results)),
	}
	posters := map[int]string{}

	for _, res := range results {
		entry := formatter.ManifestEntry{MovieID: res.MovieID, Title: res.Title, Success: res.Success}
		if !res.Success {
			result.Failed++
			entry.Error = res.Error.Error()
			manifest.Movies = append(manifest.Movies, entry)
			continue
		}

		result.Successful++
		export.Movies = append(export.Movies, *res.Record)
		if res.Poster != "" {
			if rel, err := filepath.Rel(opts.OutputDir, res.Poster); err == nil {
				posters[res.MovieID] = filepath.ToSlash(rel)
				entry.Poster = posters[res.MovieID]
			}
			result.Files = append(result.Files, res.Poster)
		}
		manifest.Movies = append(manifest.Movies, entry)
	}

	e.sendProgress(prog, writingFilesUpdate(string(format), len(export.Movies)))
	path, err := formatter.WriteExport(export, format, opts.OutputDir, posters)
	if err != nil {
		return result, fmt.Errorf("export failed: %w", err)
	}
	result.Files = append([]string{path}, result.Files...)

	manifest.Successful = result.Successful
	manifest.Failed = result.Failed
	for _, f := range result.Files {
		if rel, err := filepath.Rel(opts.OutputDir, f); err == nil {
			manifest.Files = append(manifest.Files, filepath.ToSlash(rel))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}
