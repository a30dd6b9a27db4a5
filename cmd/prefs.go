package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
	"github.com/urfave/cli/v3"
)

// PrefsTheme shows the theme, toggles it, or sets it to light or dark.
func (r *Runner) PrefsTheme(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStores(); err != nil {
		return err
	}

	switch value := cmd.StringArg("value"); value {
	case "":
	case "toggle":
		if _, err := r.theme.Toggle(); err != nil {
			return err
		}
	default:
		theme, err := models.ParseTheme(value)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		if err := r.theme.Set(theme); err != nil {
			return err
		}
	}
	return r.writePlain("Theme: %s\n", r.theme.Theme())
}

// PrefsLanguage shows the language, toggles it, or sets it to en or id.
func (r *Runner) PrefsLanguage(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStores(); err != nil {
		return err
	}

	switch value := cmd.StringArg("value"); value {
	case "":
	case "toggle":
		if _, err := r.language.Toggle(); err != nil {
			return err
		}
	default:
		lang, err := models.ParseLanguage(value)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		if err := r.language.Set(lang); err != nil {
			return err
		}
	}
	return r.writePlain("Language: %s\n", r.language.Language())
}
