package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/urfave/cli/v3"
)

type listFunc func(ctx context.Context, page int) (*models.MoviesResponse, error)

// MoviesPopular lists popular movies.
func (r *Runner) MoviesPopular(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	return r.listMovies(ctx, cmd, "Popular", r.catalog.Popular)
}

// MoviesNowPlaying lists movies currently in theatres.
func (r *Runner) MoviesNowPlaying(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	return r.listMovies(ctx, cmd, "Now Playing", r.catalog.NowPlaying)
}

// MoviesUpcoming lists upcoming releases.
func (r *Runner) MoviesUpcoming(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	return r.listMovies(ctx, cmd, "Upcoming", r.catalog.Upcoming)
}

// MoviesTopRated lists the highest rated movies.
func (r *Runner) MoviesTopRated(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}
	return r.listMovies(ctx, cmd, "Top Rated", r.catalog.TopRated)
}

func (r *Runner) listMovies(ctx context.Context, cmd *cli.Command, title string, fetch listFunc) error {
	page := cmd.Int("page")
	r.logger.Debug("listing movies", "category", title, "page", page)

	resp, err := fetch(ctx, page)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}
	r.writePlainHeader(title)
	return r.writeMovies(resp)
}

// MoviesSearch searches the catalog by title.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	resp, err := r.catalog.Search(ctx, query, cmd.Int("page"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, true)
	}
	if len(resp.Results) == 0 {
		return r.writePlain("No movies found for %q\n", query)
	}
	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	return r.writeMovies(resp)
}

func (r *Runner) writeMovies(resp *models.MoviesResponse) error {
	for i, m := range resp.Results {
		mark := ""
		if r.favorites != nil && r.favorites.IsFavorite(m.ID) {
			mark = "★ "
		}
		r.writePlain("%2d. %s%s%s  %.1f  [%d]\n", i+1, mark, m.Title, yearSuffix(m.Year()), m.VoteAverage, m.ID)
	}
	return r.writePlainln("Page %d of %d (%d results)", resp.Page, resp.TotalPages, resp.TotalResults)
}

// MoviesShow prints details, credits and the trailer link for one movie.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	detail, err := r.catalog.Details(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
		}
		return err
	}

	credits, err := r.catalog.Credits(ctx, id)
	if err != nil {
		r.logger.Warn("failed to fetch credits", "movie", id, "error", err)
	}
	videos, err := r.catalog.Videos(ctx, id)
	if err != nil {
		r.logger.Warn("failed to fetch videos", "movie", id, "error", err)
	}

	record := models.NewMovieRecord(*detail, credits, videos)
	if cmd.Bool("json") {
		return r.writeJSON(record, true)
	}

	r.writePlainHeader(detail.Title + yearSuffix(detail.Year()))
	if detail.Tagline != "" {
		r.writePlain("%s\n\n", detail.Tagline)
	}
	r.writePlain("Rating: %.1f (%d votes)\n", detail.VoteAverage, detail.VoteCount)
	if rt := shared.FormatRuntime(detail.Runtime); rt != "" {
		r.writePlain("Runtime: %s\n", rt)
	}
	if genres := detail.GenreNames(); len(genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(genres, ", "))
	}
	if len(record.Directors) > 0 {
		r.writePlain("Director: %s\n", strings.Join(record.Directors, ", "))
	}
	if len(record.Cast) > 0 {
		r.writePlain("Cast: %s\n", strings.Join(record.Cast, ", "))
	}
	if record.Trailer != "" {
		r.writePlain("Trailer: %s\n", record.Trailer)
	}
	if r.favorites != nil && r.favorites.IsFavorite(id) {
		r.writePlain("★ In your favorites\n")
	}
	if detail.Overview != "" {
		r.writePlainln("%s", detail.Overview)
	}
	return nil
}

func movieIDArg(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

func yearSuffix(year string) string {
	if year == "" {
		return ""
	}
	return " (" + year + ")"
}
