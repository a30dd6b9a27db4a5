// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "Result page to fetch",
		Value:   1,
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent database migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file with the defaults",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles sign-in and account operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
					&cli.StringFlag{Name: "password", Usage: "Account password", Sources: cli.EnvVars("WORLDER_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an email and password account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
					&cli.StringFlag{Name: "password", Usage: "Account password", Sources: cli.EnvVars("WORLDER_PASSWORD")},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "social",
				Usage: "Sign in through google, facebook or apple in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "provider"},
				},
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Give up waiting for the browser after this long",
						Value: 2 * time.Minute,
					},
				},
				Action: r.AuthSocial,
			},
			{
				Name:   "logout",
				Usage:  "Sign out",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in account",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// moviesCommand handles catalog browsing
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:   "popular",
				Usage:  "List popular movies",
				Flags:  []cli.Flag{pageFlag(), jsonFlag()},
				Action: r.MoviesPopular,
			},
			{
				Name:   "now-playing",
				Usage:  "List movies in theatres",
				Flags:  []cli.Flag{pageFlag(), jsonFlag()},
				Action: r.MoviesNowPlaying,
			},
			{
				Name:   "upcoming",
				Usage:  "List upcoming releases",
				Flags:  []cli.Flag{pageFlag(), jsonFlag()},
				Action: r.MoviesUpcoming,
			},
			{
				Name:   "top-rated",
				Usage:  "List the highest rated movies",
				Flags:  []cli.Flag{pageFlag(), jsonFlag()},
				Action: r.MoviesTopRated,
			},
			{
				Name:  "search",
				Usage: "Search movies by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{pageFlag(), jsonFlag()},
				Action: r.MoviesSearch,
			},
			{
				Name:  "show",
				Usage: "Show details, credits and trailer for a movie",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.MoviesShow,
			},
		},
	}
}

// favoritesCommand handles the favorites list
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite movies",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "details",
						Aliases: []string{"d"},
						Usage:   "Fetch title, year and directors for every favorite",
					},
					jsonFlag(),
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Add a movie to favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a movie from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:   "sync",
				Usage:  "Replace local favorites with your account's list",
				Action: r.FavoritesSync,
			},
			{
				Name:  "export",
				Usage: "Export favorites with full movie details",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: favorites_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers (default from config)",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Detail requests per second (default from config)",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download poster images",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// prefsCommand handles the theme and language preferences
func prefsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show or change preferences",
		Commands: []*cli.Command{
			{
				Name:  "theme",
				Usage: "Show the theme, or set it with toggle, light or dark",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "value"},
				},
				Action: r.PrefsTheme,
			},
			{
				Name:  "language",
				Usage: "Show the language, or set it with toggle, en or id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "value"},
				},
				Action: r.PrefsLanguage,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs here while the TUI owns the terminal",
				Value: "./tmp/worlder-tui.log",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Serve /metrics on the configured server address",
				Value: true,
			},
		},
		Action: r.TUI,
	}
}
