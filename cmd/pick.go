package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sablewood/driftplay/internal/ui"
	"github.com/urfave/cli/v3"
)

// Pick opens an interactive picker over the play history and replays the
// chosen track.
func (r *Runner) Pick(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	store, err := r.historyStore()
	if err != nil {
		return err
	}

	entries := store.Get()
	if len(entries) == 0 {
		r.writePlainln("Play history is empty.")
		return nil
	}

	program := tea.NewProgram(ui.NewPicker(entries), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("picker failed: %w", err)
	}

	model, ok := final.(*ui.PickerModel)
	if !ok {
		return fmt.Errorf("unexpected picker model type %T", final)
	}

	choice := model.Choice()
	if choice == nil {
		return nil
	}

	return r.playSession(ctx, []string{choice.URL}, cmd.Bool("radio"))
}
