package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/worlder/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configFile(cmd)

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready: %s\n", config.Database.Path)
}

// SetupRollback reverts the latest applied migration of the configured database.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	config, err := shared.LoadConfigOrDefault(r.configFile(cmd))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := shared.AppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if len(applied) == 0 {
		return r.writePlain("Nothing to roll back in %s\n", config.Database.Path)
	}

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	r.logger.Info("rolled back migration", "version", applied[len(applied)-1], "path", config.Database.Path)
	return r.writePlain("✓ Rolled back migration %d in %s\n", applied[len(applied)-1], config.Database.Path)
}

// SetupConfig writes the embedded example configuration to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configFile(cmd)

	if cmd.Bool("force") {
		if err := shared.SaveConfig(configPath, shared.DefaultConfig()); err != nil {
			return err
		}
	} else if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("%w: %v (use --force to overwrite)", shared.ErrInvalidArgument, err)
	}

	r.logger.Info("config file written", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set catalog.read_access_token (or TMDB_READ_ACCESS_TOKEN)\n")
	r.writePlain("2. Set identity.api_key (or FIREBASE_API_KEY) to enable sign-in\n")
	r.writePlain("3. Run 'worlder setup database'\n")
	return nil
}

// configFile prefers an explicit --config over the path the process was started with.
func (r *Runner) configFile(cmd *cli.Command) string {
	if cmd.IsSet("config") || r.configPath == "" {
		return cmd.String("config")
	}
	return r.configPath
}
