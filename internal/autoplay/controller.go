package autoplay

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/sablewood/driftplay/internal/discovery"
	"github.com/sablewood/driftplay/internal/shared"
)

// Level classifies user-facing notifications.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

// Engine is the playback engine surface the controller drives.
type Engine interface {
	IsRunning() bool
	SendCommand(args ...string) error
}

// Notifier delivers fire-and-forget status messages to the user. It must
// never block the caller.
type Notifier interface {
	Notify(msg string, level Level)
}

// Discoverer runs one related-track discovery. Implemented by [discovery.Runner].
type Discoverer interface {
	Start(seed string, done func(discovery.Outcome))
}

// Titles is the shared session title-lookup table keyed by URL.
type Titles interface {
	Set(url, title string)
}

// Recorder persists winning candidates. Optional; recording failures are
// logged and never disturb playback.
type Recorder interface {
	Record(seed string, winner discovery.Candidate) error
}

// Skip explains why a queue-end trigger performed no discovery.
type Skip int

const (
	SkipNone      Skip = iota // discovery was started
	SkipDisabled              // radio mode is off
	SkipNoCursor              // no last-played URL to seed from
	SkipStopped               // playback engine is not running
	SkipBusy                  // a discovery run is already in flight
	SkipThrottled             // trigger arrived inside the minimum interval
)

// String returns a human-readable skip reason for logging.
func (s Skip) String() string {
	switch s {
	case SkipNone:
		return "none"
	case SkipDisabled:
		return "disabled"
	case SkipNoCursor:
		return "no_cursor"
	case SkipStopped:
		return "engine_stopped"
	case SkipBusy:
		return "busy"
	case SkipThrottled:
		return "throttled"
	default:
		return "unknown"
	}
}

// ControllerOpts contains dependencies and settings for creating a Controller.
type ControllerOpts struct {
	Engine      Engine
	Notifier    Notifier
	Runner      Discoverer
	Titles      Titles
	Recorder    Recorder      // optional
	Loop        *Loop         // serialized dispatch queue, required
	MinInterval time.Duration // spawn throttle, 0 disables
	Logger      *log.Logger
}

// Controller orchestrates radio mode. It owns the enabled flag and the
// last-played cursor, and guarantees at most one discovery run in flight.
type Controller struct {
	engine   Engine
	notifier Notifier
	runner   Discoverer
	titles   Titles
	recorder Recorder
	loop     *Loop
	limiter  *rate.Limiter
	logger   *log.Logger

	mu      sync.Mutex
	enabled bool
	cursor  string
	busy    bool
}

// NewController creates a Controller. Radio mode starts disabled.
func NewController(opts ControllerOpts) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}

	return &Controller{
		engine:   opts.Engine,
		notifier: opts.Notifier,
		runner:   opts.Runner,
		titles:   opts.Titles,
		recorder: opts.Recorder,
		loop:     opts.Loop,
		limiter:  limiter,
		logger:   opts.Logger,
	}
}

// Toggle flips radio mode and notifies the user of the new state. Returns
// the state after the flip.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	c.enabled = !c.enabled
	enabled := c.enabled
	c.mu.Unlock()

	if enabled {
		c.notifier.Notify("Radio mode on", LevelInfo)
	} else {
		c.notifier.Notify("Radio mode off", LevelInfo)
	}

	return enabled
}

// Enabled reports whether radio mode is on.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled forces radio mode without a notification, for startup wiring.
func (c *Controller) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	c.mu.Unlock()
}

// SetLastPlayed records the URL of the track that just started. Called by
// the player wiring on every track start and by the controller itself after
// a successful discovery.
func (c *Controller) SetLastPlayed(url string) {
	c.mu.Lock()
	c.cursor = url
	c.mu.Unlock()
}

// LastPlayed returns the current cursor.
func (c *Controller) LastPlayed() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// OnQueueEnd handles the playback engine's queue-drained event. Guard
// clauses run in order and each failure is a silent no-op; the returned
// Skip reason exists for logging and tests, not for the user.
//
// When all preconditions hold, a "searching" notification goes out and a
// discovery run starts seeded with the cursor. The outcome lands back on
// the dispatch loop.
func (c *Controller) OnQueueEnd() Skip {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return SkipDisabled
	}
	seed := c.cursor
	if seed == "" {
		c.mu.Unlock()
		return SkipNoCursor
	}
	if !c.engine.IsRunning() {
		c.mu.Unlock()
		return SkipStopped
	}
	if c.busy {
		c.mu.Unlock()
		return SkipBusy
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.mu.Unlock()
		return SkipThrottled
	}
	c.busy = true
	c.mu.Unlock()

	c.notifier.Notify("Searching for a related track...", LevelInfo)
	c.logger.Infof("starting discovery seeded with %s", seed)

	c.runner.Start(seed, func(out discovery.Outcome) {
		if !c.loop.Dispatch(func() { c.finish(seed, out) }) {
			// Loop shut down mid-run; drop the outcome but release the
			// single-flight guard.
			c.mu.Lock()
			c.busy = false
			c.mu.Unlock()
		}
	})

	return SkipNone
}

// finish consumes a discovery outcome. Runs only on the dispatch loop.
func (c *Controller) finish(seed string, out discovery.Outcome) {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()

	if out.Err != nil {
		c.logger.Warnf("discovery seeded with %s failed: %v", seed, out.Err)
		c.notifier.Notify("Radio: "+failureMessage(out.Err), LevelWarn)
		return
	}

	winner := out.Winner
	c.titles.Set(winner.URL, winner.Title)

	if err := c.engine.SendCommand("loadfile", winner.URL, "append-play"); err != nil {
		c.logger.Warnf("failed to queue %s: %v", winner.URL, err)
		c.notifier.Notify("Radio: failed to queue next track", LevelWarn)
		return
	}

	c.SetLastPlayed(winner.URL)

	if c.recorder != nil {
		if err := c.recorder.Record(seed, winner); err != nil {
			c.logger.Warnf("failed to record discovery: %v", err)
		}
	}

	c.notifier.Notify("Radio: queued "+winner.Title, LevelInfo)
}

// failureMessage maps a discovery error to the user-facing warning text.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrNoCandidates):
		return "no related tracks found"
	case errors.Is(err, shared.ErrDiscoverySpawn):
		return "discovery tool could not be started"
	case errors.Is(err, shared.ErrDiscoveryTool):
		return "discovery tool reported an error"
	default:
		return "discovery failed"
	}
}
