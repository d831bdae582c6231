package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sablewood/driftplay/internal/history"
	"github.com/sablewood/driftplay/internal/repositories"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recently played tracks, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	store, err := r.historyStore()
	if err != nil {
		return err
	}

	entries := store.Get()
	if limit := int(cmd.Int("limit")); limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		r.writePlainln("Play history is empty.")
		return nil
	}

	r.writePlainln("Recently played (%d):", len(entries))
	for i, entry := range entries {
		r.writePlain("%3d. %s\n", i+1, entry.Title)
		r.writePlain("     %s%s\n", entry.URL, formatEntryMeta(entry))
	}
	return nil
}

// HistoryClear deletes the play history file.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	store, err := r.historyStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	r.writePlainln("Play history cleared.")
	return nil
}

// HistoryDiscovered prints tracks that radio mode queued, newest first.
func (r *Runner) HistoryDiscovered(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open discovery log: %w", err)
	}
	defer db.Close()

	repo, err := repositories.NewDiscoveryLogRepository(db)
	if err != nil {
		return fmt.Errorf("failed to open discovery log: %w", err)
	}

	logged, err := repo.Recent(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to read discovery log: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(logged, cmd.Bool("pretty"))
	}

	if len(logged) == 0 {
		r.writePlainln("No tracks discovered yet.")
		return nil
	}

	r.writePlainln("Discovered by radio mode (%d):", len(logged))
	for i, candidate := range logged {
		r.writePlain("%3d. %s\n", i+1, candidate.Title)
		r.writePlain("     %s (from %s, %s)\n",
			candidate.URL, candidate.SeedURL, candidate.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func formatEntryMeta(entry history.Entry) string {
	meta := ""
	if entry.Duration > 0 {
		d := time.Duration(entry.Duration * float64(time.Second)).Round(time.Second)
		meta += fmt.Sprintf(" (%s)", d)
	}
	if !entry.Timestamp.IsZero() {
		meta += fmt.Sprintf(" played %s", entry.Timestamp.Format("2006-01-02 15:04"))
	}
	return meta
}
