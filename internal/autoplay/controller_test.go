package autoplay

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sablewood/driftplay/internal/discovery"
	"github.com/sablewood/driftplay/internal/shared"
)

type mockEngine struct {
	mu       sync.Mutex
	running  bool
	sendErr  error
	commands [][]string
}

func (m *mockEngine) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *mockEngine) SendCommand(args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.commands = append(m.commands, args)
	return nil
}

func (m *mockEngine) sent() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.commands...)
}

type notice struct {
	msg   string
	level Level
}

type mockNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (m *mockNotifier) Notify(msg string, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, notice{msg: msg, level: level})
}

func (m *mockNotifier) all() []notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notice(nil), m.notices...)
}

// mockDiscoverer either completes synchronously with a canned outcome or
// captures the done callback for the test to fire later.
type mockDiscoverer struct {
	mu      sync.Mutex
	seeds   []string
	outcome discovery.Outcome
	manual  bool
	done    func(discovery.Outcome)
}

func (m *mockDiscoverer) Start(seed string, done func(discovery.Outcome)) {
	m.mu.Lock()
	m.seeds = append(m.seeds, seed)
	out := m.outcome
	manual := m.manual
	if manual {
		m.done = done
	}
	m.mu.Unlock()

	if !manual {
		done(out)
	}
}

func (m *mockDiscoverer) started() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.seeds...)
}

func (m *mockDiscoverer) fire() {
	m.mu.Lock()
	done := m.done
	out := m.outcome
	m.mu.Unlock()
	done(out)
}

type mockTitles struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMockTitles() *mockTitles {
	return &mockTitles{entries: map[string]string{}}
}

func (m *mockTitles) Set(url, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[url] = title
}

func (m *mockTitles) get(url string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[url]
}

type recorded struct {
	seed   string
	winner discovery.Candidate
}

type mockRecorder struct {
	mu      sync.Mutex
	err     error
	records []recorded
}

func (m *mockRecorder) Record(seed string, winner discovery.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, recorded{seed: seed, winner: winner})
	return nil
}

type fixture struct {
	engine   *mockEngine
	notifier *mockNotifier
	disc     *mockDiscoverer
	titles   *mockTitles
	recorder *mockRecorder
	loop     *Loop
	ctrl     *Controller
}

func newFixture(t *testing.T, disc *mockDiscoverer, minInterval time.Duration) *fixture {
	t.Helper()

	f := &fixture{
		engine:   &mockEngine{running: true},
		notifier: &mockNotifier{},
		disc:     disc,
		titles:   newMockTitles(),
		recorder: &mockRecorder{},
	}
	f.loop = NewLoop(16)
	go f.loop.Run()
	t.Cleanup(f.loop.Close)

	f.ctrl = NewController(ControllerOpts{
		Engine:      f.engine,
		Notifier:    f.notifier,
		Runner:      f.disc,
		Titles:      f.titles,
		Recorder:    f.recorder,
		Loop:        f.loop,
		MinInterval: minInterval,
	})
	return f
}

// flush waits until all previously dispatched loop work has run.
func (f *fixture) flush(t *testing.T) {
	t.Helper()
	ch := make(chan struct{})
	if !f.loop.Dispatch(func() { close(ch) }) {
		t.Fatal("loop refused dispatch")
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("loop stalled")
	}
}

func winnerOutcome(url, title string) discovery.Outcome {
	return discovery.Outcome{Winner: discovery.Candidate{URL: url, Title: title}}
}

func TestController_Toggle(t *testing.T) {
	f := newFixture(t, &mockDiscoverer{}, 0)

	if on := f.ctrl.Toggle(); !on {
		t.Error("first Toggle returned false")
	}
	if on := f.ctrl.Toggle(); on {
		t.Error("second Toggle returned true")
	}

	notices := f.notifier.all()
	if len(notices) != 2 {
		t.Fatalf("got %d notices, want 2", len(notices))
	}
	if notices[0].msg != "Radio mode on" || notices[0].level != LevelInfo {
		t.Errorf("first notice = %+v", notices[0])
	}
	if notices[1].msg != "Radio mode off" || notices[1].level != LevelInfo {
		t.Errorf("second notice = %+v", notices[1])
	}
}

func TestController_OnQueueEnd_Preconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		want  Skip
	}{
		{
			name:  "radio mode off",
			setup: func(f *fixture) {},
			want:  SkipDisabled,
		},
		{
			name: "no cursor",
			setup: func(f *fixture) {
				f.ctrl.SetEnabled(true)
			},
			want: SkipNoCursor,
		},
		{
			name: "engine stopped",
			setup: func(f *fixture) {
				f.ctrl.SetEnabled(true)
				f.ctrl.SetLastPlayed("https://x/a")
				f.engine.mu.Lock()
				f.engine.running = false
				f.engine.mu.Unlock()
			},
			want: SkipStopped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &mockDiscoverer{}, 0)
			tt.setup(f)

			if got := f.ctrl.OnQueueEnd(); got != tt.want {
				t.Errorf("OnQueueEnd = %v, want %v", got, tt.want)
			}
			if n := len(f.disc.started()); n != 0 {
				t.Errorf("discovery spawned %d times on a skipped trigger", n)
			}
			if n := len(f.notifier.all()); n != 0 {
				t.Errorf("got %d notices on a skipped trigger, want 0", n)
			}
		})
	}
}

func TestController_OnQueueEnd_Success(t *testing.T) {
	disc := &mockDiscoverer{outcome: winnerOutcome("https://x/b", "Song B")}
	f := newFixture(t, disc, 0)
	f.ctrl.SetEnabled(true)
	f.ctrl.SetLastPlayed("https://x/a")

	if got := f.ctrl.OnQueueEnd(); got != SkipNone {
		t.Fatalf("OnQueueEnd = %v, want SkipNone", got)
	}
	f.flush(t)

	if seeds := disc.started(); len(seeds) != 1 || seeds[0] != "https://x/a" {
		t.Errorf("discovery seeds = %v, want [https://x/a]", seeds)
	}
	if got := f.titles.get("https://x/b"); got != "Song B" {
		t.Errorf("title table entry = %q, want Song B", got)
	}

	commands := f.engine.sent()
	if len(commands) != 1 {
		t.Fatalf("engine got %d commands, want 1", len(commands))
	}
	want := []string{"loadfile", "https://x/b", "append-play"}
	for i, arg := range want {
		if commands[0][i] != arg {
			t.Fatalf("command = %v, want %v", commands[0], want)
		}
	}

	if got := f.ctrl.LastPlayed(); got != "https://x/b" {
		t.Errorf("cursor = %q, want winner URL", got)
	}

	if len(f.recorder.records) != 1 || f.recorder.records[0].seed != "https://x/a" {
		t.Errorf("recorder records = %+v", f.recorder.records)
	}

	notices := f.notifier.all()
	if len(notices) != 2 {
		t.Fatalf("got %d notices, want searching + queued", len(notices))
	}
	if notices[0].msg != "Searching for a related track..." {
		t.Errorf("first notice = %q", notices[0].msg)
	}
	if notices[1].msg != "Radio: queued Song B" || notices[1].level != LevelInfo {
		t.Errorf("second notice = %+v", notices[1])
	}
}

func TestController_OnQueueEnd_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "tool failure",
			err:     fmt.Errorf("%w: exit status 1", shared.ErrDiscoveryTool),
			wantMsg: "Radio: discovery tool reported an error",
		},
		{
			name:    "spawn failure",
			err:     fmt.Errorf("%w: no such file", shared.ErrDiscoverySpawn),
			wantMsg: "Radio: discovery tool could not be started",
		},
		{
			name:    "no candidates",
			err:     shared.ErrNoCandidates,
			wantMsg: "Radio: no related tracks found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disc := &mockDiscoverer{outcome: discovery.Outcome{Err: tt.err}}
			f := newFixture(t, disc, 0)
			f.ctrl.SetEnabled(true)
			f.ctrl.SetLastPlayed("https://x/a")

			if got := f.ctrl.OnQueueEnd(); got != SkipNone {
				t.Fatalf("OnQueueEnd = %v, want SkipNone", got)
			}
			f.flush(t)

			if got := f.ctrl.LastPlayed(); got != "https://x/a" {
				t.Errorf("cursor changed on failure: %q", got)
			}
			if n := len(f.engine.sent()); n != 0 {
				t.Errorf("engine got %d commands on failure, want 0", n)
			}
			if got := f.titles.get("https://x/b"); got != "" {
				t.Error("title table mutated on failure")
			}

			notices := f.notifier.all()
			if len(notices) != 2 {
				t.Fatalf("got %d notices, want searching + warning", len(notices))
			}
			if notices[1].msg != tt.wantMsg || notices[1].level != LevelWarn {
				t.Errorf("warning notice = %+v, want %q at warn", notices[1], tt.wantMsg)
			}
		})
	}
}

func TestController_SingleFlight(t *testing.T) {
	disc := &mockDiscoverer{
		manual:  true,
		outcome: winnerOutcome("https://x/b", "Song B"),
	}
	f := newFixture(t, disc, 0)
	f.ctrl.SetEnabled(true)
	f.ctrl.SetLastPlayed("https://x/a")

	if got := f.ctrl.OnQueueEnd(); got != SkipNone {
		t.Fatalf("first OnQueueEnd = %v, want SkipNone", got)
	}
	if got := f.ctrl.OnQueueEnd(); got != SkipBusy {
		t.Fatalf("second OnQueueEnd = %v, want SkipBusy", got)
	}

	disc.fire()
	f.flush(t)

	// Guard released: the next trigger runs again.
	if got := f.ctrl.OnQueueEnd(); got != SkipNone {
		t.Errorf("post-completion OnQueueEnd = %v, want SkipNone", got)
	}
}

func TestController_Throttle(t *testing.T) {
	disc := &mockDiscoverer{outcome: winnerOutcome("https://x/b", "Song B")}
	f := newFixture(t, disc, time.Hour)
	f.ctrl.SetEnabled(true)
	f.ctrl.SetLastPlayed("https://x/a")

	if got := f.ctrl.OnQueueEnd(); got != SkipNone {
		t.Fatalf("first OnQueueEnd = %v, want SkipNone", got)
	}
	f.flush(t)

	if got := f.ctrl.OnQueueEnd(); got != SkipThrottled {
		t.Errorf("second OnQueueEnd = %v, want SkipThrottled", got)
	}
}

func TestController_QueueCommandFailure(t *testing.T) {
	disc := &mockDiscoverer{outcome: winnerOutcome("https://x/b", "Song B")}
	f := newFixture(t, disc, 0)
	f.ctrl.SetEnabled(true)
	f.ctrl.SetLastPlayed("https://x/a")
	f.engine.mu.Lock()
	f.engine.sendErr = fmt.Errorf("ipc gone")
	f.engine.mu.Unlock()

	f.ctrl.OnQueueEnd()
	f.flush(t)

	if got := f.ctrl.LastPlayed(); got != "https://x/a" {
		t.Errorf("cursor advanced despite queue failure: %q", got)
	}

	notices := f.notifier.all()
	last := notices[len(notices)-1]
	if last.level != LevelWarn {
		t.Errorf("last notice = %+v, want a warning", last)
	}
}

func TestController_RecorderFailureIsNonFatal(t *testing.T) {
	disc := &mockDiscoverer{outcome: winnerOutcome("https://x/b", "Song B")}
	f := newFixture(t, disc, 0)
	f.recorder.err = fmt.Errorf("disk full")
	f.ctrl.SetEnabled(true)
	f.ctrl.SetLastPlayed("https://x/a")

	f.ctrl.OnQueueEnd()
	f.flush(t)

	if got := f.ctrl.LastPlayed(); got != "https://x/b" {
		t.Errorf("cursor = %q, want winner URL despite recorder failure", got)
	}

	notices := f.notifier.all()
	last := notices[len(notices)-1]
	if last.msg != "Radio: queued Song B" || last.level != LevelInfo {
		t.Errorf("last notice = %+v, want queued info", last)
	}
}
