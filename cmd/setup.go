package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sablewood/driftplay/internal/repositories"
	"github.com/sablewood/driftplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file and initializes the discovery log
// database. Both steps are idempotent.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Infof("config file already exists at %s", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Infof("created config file at %s", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	r.config = config

	dbPath, err := r.databasePath()
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := repositories.NewDiscoveryLogRepository(db); err != nil {
		return fmt.Errorf("failed to initialize discovery log: %w", err)
	}

	historyPath, err := r.historyPath()
	if err != nil {
		return fmt.Errorf("failed to resolve history path: %w", err)
	}

	r.writePlainln("Setup complete.")
	r.writePlain("  config:        %s\n", configPath)
	r.writePlain("  discovery log: %s\n", dbPath)
	r.writePlain("  play history:  %s\n", historyPath)
	return nil
}
