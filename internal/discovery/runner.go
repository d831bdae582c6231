package discovery

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sablewood/driftplay/internal/shared"
)

// State identifies the phase of a discovery run.
type State int

const (
	StateIdle State = iota
	StateSpawning
	StateStreaming
	StateCompleted
	StateSpawnFailed
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawning:
		return "spawning"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateSpawnFailed:
		return "spawn_failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one discovery run. Exactly one of
// Winner or Err is meaningful: Err is nil on success.
type Outcome struct {
	Winner Candidate
	Err    error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Binary       string      // discovery tool executable, defaults to "yt-dlp"
	SearchPrefix string      // --default-search provider prefix, defaults to "ytsearch"
	ResultLimit  int         // results requested per run, defaults to 5
	Logger       *log.Logger // defaults to a stderr logger
}

// Runner executes the external discovery tool once per [Runner.Start] call
// and delivers a terminal [Outcome] exactly once per run.
//
// The runner itself holds no shared playback state; it is safe to reuse for
// sequential runs but callers are expected to keep at most one run in
// flight (the autoplay controller enforces this).
type Runner struct {
	binary       string
	searchPrefix string
	resultLimit  int
	logger       *log.Logger

	mu    sync.Mutex
	state State
}

// NewRunner creates a Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Binary == "" {
		opts.Binary = "yt-dlp"
	}
	if opts.SearchPrefix == "" {
		opts.SearchPrefix = "ytsearch"
	}
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = 5
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Runner{
		binary:       opts.Binary,
		searchPrefix: opts.SearchPrefix,
		resultLimit:  opts.ResultLimit,
		logger:       opts.Logger,
		state:        StateIdle,
	}
}

// State reports the phase of the most recent run.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// buildArgs constructs the tool invocation for a seed URL: flat playlist,
// no download, no warnings, one JSON record per line, and a search query of
// the form "<prefix><limit>:related to <seed>".
func (r *Runner) buildArgs(seed string) []string {
	search := fmt.Sprintf("%s%d", r.searchPrefix, r.resultLimit)
	return []string{
		"--flat-playlist",
		"--skip-download",
		"--no-warnings",
		"-j",
		"--default-search", search,
		"related to " + seed,
	}
}

// Start spawns the discovery tool seeded with the given URL and returns
// immediately. The done callback fires exactly once with the terminal
// outcome, either synchronously when the spawn itself fails or from the
// runner's wait goroutine after the process exits.
//
// Streaming appends stdout chunks to an in-memory accumulator in arrival
// order; parsing and selection are deferred until the process has fully
// exited, so partial lines are never parsed. Stderr is not captured; a
// nonzero exit code alone signals tool failure.
//
// There is no cancellation or timeout: once spawned, a run always proceeds
// to completion or failure.
func (r *Runner) Start(seed string, done func(Outcome)) {
	runID := shared.GenerateID()
	logger := shared.WithLogger(r.logger, "run", runID)

	var once sync.Once
	finish := func(out Outcome) {
		once.Do(func() {
			if out.Err != nil {
				logger.Warnf("discovery run failed: %v", out.Err)
			} else {
				logger.Infof("discovery run picked %q (%s)", out.Winner.Title, out.Winner.URL)
			}
			done(out)
		})
	}

	r.setState(StateSpawning)

	cmd := exec.Command(r.binary, r.buildArgs(seed)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.setState(StateSpawnFailed)
		finish(Outcome{Err: fmt.Errorf("%w: %v", shared.ErrDiscoverySpawn, err)})
		return
	}

	if err := cmd.Start(); err != nil {
		r.setState(StateSpawnFailed)
		finish(Outcome{Err: fmt.Errorf("%w: %v", shared.ErrDiscoverySpawn, err)})
		return
	}

	logger.Infof("spawned %s (pid %d)", r.binary, cmd.Process.Pid)
	r.setState(StateStreaming)

	go r.stream(cmd, stdout, seed, finish)
}

// stream accumulates stdout until EOF, waits for the process to exit, and
// runs the parse/select stage. Runs on its own goroutine.
func (r *Runner) stream(cmd *exec.Cmd, stdout io.ReadCloser, seed string, finish func(Outcome)) {
	var accumulated []byte
	buf := make([]byte, 4096)

	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			accumulated = append(accumulated, buf[:n]...)
		}
		if err != nil {
			break
		}
	}

	// Wait closes the pipe again; the double close is harmless.
	_ = stdout.Close()

	if err := cmd.Wait(); err != nil {
		r.setState(StateCompleted)
		finish(Outcome{Err: fmt.Errorf("%w: %v", shared.ErrDiscoveryTool, err)})
		return
	}

	candidates := ParseLines(strings.Split(string(accumulated), "\n"))

	winner, ok := Select(candidates, seed, nil)
	r.setState(StateCompleted)
	if !ok {
		finish(Outcome{Err: shared.ErrNoCandidates})
		return
	}

	finish(Outcome{Winner: winner})
}
