package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/worlder/internal/formatter"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/desertthunder/worlder/internal/tasks"
	"github.com/urfave/cli/v3"
)

type favoriteRow struct {
	MovieID   int      `json:"id"`
	Title     string   `json:"title,omitempty"`
	Year      string   `json:"year,omitempty"`
	Directors []string `json:"directors,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// FavoritesList prints the favorite ids, or with --details their titles and directors.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStores(); err != nil {
		return err
	}

	r.startSession(ctx)
	ids := r.favorites.Favorites()

	rows := make([]favoriteRow, 0, len(ids))
	if cmd.Bool("details") && len(ids) > 0 {
		results, err := r.exporter.Collect(ctx, nil, ids, tasks.CollectOpts{
			NumWorkers: r.config.Export.Workers,
			RateLimit:  r.config.Export.RequestsPerSecond,
		})
		if err != nil {
			return err
		}
		for _, res := range results {
			row := favoriteRow{MovieID: res.MovieID, Title: res.Title}
			if res.Success {
				row.Year = res.Record.Detail.Year()
				row.Directors = res.Record.Directors
			} else {
				row.Error = res.Error.Error()
			}
			rows = append(rows, row)
		}
	} else {
		for _, id := range ids {
			rows = append(rows, favoriteRow{MovieID: id})
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}
	if len(rows) == 0 {
		return r.writePlain("No favorites yet\n")
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(rows)))
	for i, row := range rows {
		switch {
		case row.Error != "":
			r.writePlain("%2d. %s [%d]: %s\n", i+1, row.Title, row.MovieID, row.Error)
		case row.Title == "":
			r.writePlain("%2d. %d\n", i+1, row.MovieID)
		case len(row.Directors) > 0:
			r.writePlain("%2d. %s%s - %s [%d]\n", i+1, row.Title, yearSuffix(row.Year), strings.Join(row.Directors, ", "), row.MovieID)
		default:
			r.writePlain("%2d. %s%s [%d]\n", i+1, row.Title, yearSuffix(row.Year), row.MovieID)
		}
	}
	return nil
}

// FavoritesAdd adds a movie to favorites, syncing it to the account when signed in.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireStores(); err != nil {
		return err
	}

	uid := r.userID(ctx)
	if err := r.favorites.AddFavorite(ctx, id, uid); err != nil {
		return err
	}
	return r.writePlain("✓ Added %d to favorites%s\n", id, r.syncNote(uid))
}

// FavoritesRemove removes a movie from favorites, syncing the removal when signed in.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := movieIDArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireStores(); err != nil {
		return err
	}

	uid := r.userID(ctx)
	if err := r.favorites.RemoveFavorite(ctx, id, uid); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %d from favorites%s\n", id, r.syncNote(uid))
}

func (r *Runner) syncNote(uid string) string {
	switch {
	case uid != "":
		return ""
	case r.session != nil && r.session.Identity() != nil:
		return " (local only, session not verified)"
	default:
		return " (local only, sign in to sync)"
	}
}

// FavoritesSync replaces the local favorites with the signed-in account's document.
func (r *Runner) FavoritesSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	fresh := r.startSession(ctx)
	uid := r.session.UserID()
	if uid == "" {
		if r.session.Identity() != nil {
			return fmt.Errorf("%w: stored session could not be verified, sign in again to sync favorites", shared.ErrNotAuthenticated)
		}
		return fmt.Errorf("%w: sign in to sync favorites", shared.ErrNotAuthenticated)
	}

	// A fresh subscription has already loaded the signed-in user's document.
	if !fresh {
		r.favorites.LoadFavorites(ctx, uid)
	}
	if err := r.favorites.LoadErr(); err != nil {
		return fmt.Errorf("failed to sync favorites: %w", err)
	}
	return r.writePlain("✓ %d favorites synced\n", len(r.favorites.Favorites()))
}

// FavoritesExport writes every favorite with full details to disk.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.requireStores(); err != nil {
		return err
	}

	uid := r.userID(ctx)
	ids := r.favorites.Favorites()
	if len(ids) == 0 {
		return r.writePlain("No favorites to export\n")
	}

	opts := tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: r.config.Export.Workers,
		RateLimit:  r.config.Export.RequestsPerSecond,
		Posters:    cmd.Bool("posters"),
		UserID:     uid,
		ImageURL:   r.imageURL,
	}
	if w := cmd.Int("workers"); w > 0 {
		opts.NumWorkers = w
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	r.logger.Info("exporting favorites", "count", len(ids), "format", format)
	r.writePlain("Exporting %d favorites as %s...\n\n", len(ids), format)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchExtras:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteFiles:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.exporter.Export(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Exported: %d/%d movies\n", result.Successful, result.TotalMovies)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.Title, res.Error)
			}
		}
	}
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
