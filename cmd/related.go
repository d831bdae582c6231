package main

import (
	"context"
	"fmt"

	"github.com/sablewood/driftplay/internal/discovery"
	"github.com/sablewood/driftplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// Related runs a single discovery pass for a seed URL and prints the pick.
func (r *Runner) Related(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	seed := cmd.Args().First()
	if seed == "" {
		return fmt.Errorf("%w: seed URL", shared.ErrMissingArgument)
	}

	runner := discovery.NewRunner(discovery.RunnerOpts{
		Binary:       r.config.Discovery.Binary,
		SearchPrefix: r.config.Discovery.SearchPrefix,
		ResultLimit:  r.config.Discovery.ResultLimit,
		Logger:       r.logger,
	})

	r.logger.Infof("searching for tracks related to %s", seed)

	outcomes := make(chan discovery.Outcome, 1)
	runner.Start(seed, func(out discovery.Outcome) {
		outcomes <- out
	})

	var out discovery.Outcome
	select {
	case out = <-outcomes:
	case <-ctx.Done():
		return ctx.Err()
	}

	if out.Err != nil {
		return fmt.Errorf("discovery failed: %w", out.Err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(out.Winner, cmd.Bool("pretty"))
	}

	r.writePlainln("Related track: %s", out.Winner.Title)
	r.writePlain("%s\n", out.Winner.URL)
	return nil
}
