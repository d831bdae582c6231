package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sablewood/driftplay/internal/autoplay"
	"github.com/sablewood/driftplay/internal/discovery"
	"github.com/sablewood/driftplay/internal/history"
	"github.com/sablewood/driftplay/internal/player"
	"github.com/sablewood/driftplay/internal/repositories"
	"github.com/sablewood/driftplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play starts an mpv session for the given URLs or files.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("%w: at least one URL or file path", shared.ErrMissingArgument)
	}

	return r.playSession(ctx, urls, cmd.Bool("radio"))
}

// playSession wires the player, the discovery runner and the radio
// controller together and blocks until the player exits or ctx is done.
func (r *Runner) playSession(ctx context.Context, urls []string, radio bool) error {
	store, err := r.historyStore()
	if err != nil {
		return err
	}

	// The discovery log is best effort: playback works without it.
	var recorder autoplay.Recorder
	if db, err := r.openDatabase(); err != nil {
		r.logger.Warnf("discovery log unavailable: %v", err)
	} else {
		defer db.Close()
		repo, err := repositories.NewDiscoveryLogRepository(db)
		if err != nil {
			r.logger.Warnf("discovery log unavailable: %v", err)
		} else {
			recorder = repo
		}
	}

	session := player.NewSession()
	loop := autoplay.NewLoop(0)

	runner := discovery.NewRunner(discovery.RunnerOpts{
		Binary:       r.config.Discovery.Binary,
		SearchPrefix: r.config.Discovery.SearchPrefix,
		ResultLimit:  r.config.Discovery.ResultLimit,
		Logger:       r.logger,
	})

	// The controller is created after the player, but the player's hooks
	// only fire once Start succeeds, so capturing it by reference is safe.
	var controller *autoplay.Controller

	mpv := player.NewMPV(player.MPVOpts{
		Binary:    r.config.Player.Binary,
		SocketDir: r.config.Player.SocketDir,
		ExtraArgs: r.config.Player.ExtraArgs,
		OSD:       r.config.Player.OSDNotifications,
		Session:   session,
		Logger:    r.logger,
		OnTrackStart: func(track player.Track) {
			loop.Dispatch(func() {
				controller.SetLastPlayed(track.URL)
				entry := history.Entry{
					Title:    track.Title,
					URL:      track.URL,
					Duration: track.Duration,
				}
				if err := store.Add(entry); err != nil {
					r.logger.Warnf("failed to record history: %v", err)
				}
			})
		},
		OnQueueEnd: func() {
			loop.Dispatch(func() {
				if skip := controller.OnQueueEnd(); skip != autoplay.SkipNone {
					r.logger.Debugf("queue end ignored: %s", skip)
				}
			})
		},
		// Bound to `script-message radio-toggle` in the user's input.conf.
		OnToggle: func() {
			loop.Dispatch(func() { controller.Toggle() })
		},
	})

	controller = autoplay.NewController(autoplay.ControllerOpts{
		Engine:      mpv,
		Notifier:    mpv,
		Runner:      runner,
		Titles:      session,
		Recorder:    recorder,
		Loop:        loop,
		MinInterval: time.Duration(r.config.Discovery.MinIntervalSeconds) * time.Second,
		Logger:      r.logger,
	})
	controller.SetEnabled(radio)

	go loop.Run()
	defer loop.Close()

	if err := mpv.Start(urls...); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}
	defer mpv.Close()

	r.writePlainln("Playing %d track(s), radio mode %s.", len(urls), onOff(radio))

	select {
	case <-ctx.Done():
		r.logger.Info("interrupted, shutting down")
		return nil
	case <-mpv.Wait():
		r.logger.Info("player exited")
		return nil
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
