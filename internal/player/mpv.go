package player

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sablewood/driftplay/internal/autoplay"
	"github.com/sablewood/driftplay/internal/shared"
)

// Track describes one started track, handed to the track-start hook.
type Track struct {
	URL      string
	Title    string
	Duration float64 // seconds, 0 when the player does not know yet
}

// MPVOpts contains configuration options for creating an MPV player.
type MPVOpts struct {
	Binary    string   // defaults to "mpv"
	SocketDir string   // defaults to the OS temp dir
	ExtraArgs []string // appended to every invocation
	OSD       bool     // mirror notifications onto the mpv OSD
	Session   *Session
	Logger    *log.Logger

	// OnTrackStart fires after a file loads. Runs off the IPC read loop.
	OnTrackStart func(Track)
	// OnQueueEnd fires when the player goes idle after having played
	// something, i.e. the queue drained.
	OnQueueEnd func()
	// OnToggle fires on a "radio-toggle" script message, so users can bind
	// a key to `script-message radio-toggle` in their mpv input.conf.
	OnToggle func()
}

// MPV runs one mpv process in idle mode and drives it over JSON IPC.
type MPV struct {
	binary     string
	socketPath string
	extraArgs  []string
	osd        bool
	session    *Session
	logger     *log.Logger

	onTrackStart func(Track)
	onQueueEnd   func()
	onToggle     func()

	cmd    *exec.Cmd
	ipc    *IPC
	waitCh chan struct{}

	mu          sync.Mutex
	sawPlayback bool

	closeOnce sync.Once
}

// NewMPV creates a player. Call [MPV.Start] to spawn the process.
func NewMPV(opts MPVOpts) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.SocketDir == "" {
		opts.SocketDir = os.TempDir()
	}
	if opts.Session == nil {
		opts.Session = NewSession()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	socket := filepath.Join(opts.SocketDir, fmt.Sprintf("driftplay-mpv-%d.sock", os.Getpid()))

	return &MPV{
		binary:       opts.Binary,
		socketPath:   socket,
		extraArgs:    opts.ExtraArgs,
		osd:          opts.OSD,
		session:      opts.Session,
		logger:       opts.Logger,
		onTrackStart: opts.OnTrackStart,
		onQueueEnd:   opts.OnQueueEnd,
		onToggle:     opts.OnToggle,
	}
}

// Session returns the shared title table for this player.
func (m *MPV) Session() *Session {
	return m.session
}

// buildArgs assembles the mpv invocation: idle so the process outlives the
// queue, quiet terminal, and the IPC socket the client dials.
func (m *MPV) buildArgs(urls []string) []string {
	args := []string{
		"--idle=yes",
		"--really-quiet",
		"--input-ipc-server=" + m.socketPath,
	}
	args = append(args, m.extraArgs...)
	args = append(args, urls...)
	return args
}

// Start spawns mpv with the given initial URLs and connects to its IPC
// socket, retrying the dial until the player is up.
func (m *MPV) Start(urls ...string) error {
	if _, err := exec.LookPath(m.binary); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlayerNotFound, err)
	}

	m.cmd = exec.Command(m.binary, m.buildArgs(urls)...)
	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlayerNotFound, err)
	}

	m.waitCh = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.waitCh)
	}()

	conn, err := m.dial()
	if err != nil {
		m.Close()
		return err
	}

	m.ipc = NewIPC(conn, m.handleEvent, m.logger)
	m.logger.Infof("player up (pid %d, socket %s)", m.cmd.Process.Pid, m.socketPath)
	return nil
}

// dial retries the IPC socket until mpv has created it.
func (m *MPV) dial() (net.Conn, error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			return conn, nil
		}

		select {
		case <-m.waitCh:
			return nil, fmt.Errorf("%w: player exited before the IPC socket came up", shared.ErrPlayerNotRunning)
		default:
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: timed out dialing %s: %v", shared.ErrPlayerNotRunning, m.socketPath, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// IsRunning reports whether the player process is alive.
func (m *MPV) IsRunning() bool {
	if m.cmd == nil || m.waitCh == nil {
		return false
	}
	select {
	case <-m.waitCh:
		return false
	default:
		return true
	}
}

// SendCommand issues a player command, e.g. ("loadfile", url, "append-play").
// Satisfies autoplay.Engine.
func (m *MPV) SendCommand(args ...string) error {
	if m.ipc == nil {
		return shared.ErrPlayerNotRunning
	}
	return m.ipc.Command(args...)
}

// Notify shows a status message on the OSD (when enabled) and logs it.
// Fire-and-forget: IPC failures are swallowed. Satisfies autoplay.Notifier.
func (m *MPV) Notify(msg string, level autoplay.Level) {
	if level == autoplay.LevelWarn {
		m.logger.Warn(msg)
	} else {
		m.logger.Info(msg)
	}

	if !m.osd || m.ipc == nil || !m.IsRunning() {
		return
	}
	if _, err := m.ipc.Send("show-text", msg, 4000); err != nil {
		m.logger.Debugf("failed to show OSD text: %v", err)
	}
}

// Wait returns a channel closed when the player process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.waitCh
}

// Close tears the player down: connection first, then the process. Safe to
// call multiple times and on a player that never started.
func (m *MPV) Close() {
	m.closeOnce.Do(func() {
		if m.ipc != nil {
			_ = m.ipc.Command("quit")
			_ = m.ipc.Close()
		}
		if m.cmd != nil && m.cmd.Process != nil {
			select {
			case <-m.waitCh:
			case <-time.After(time.Second):
				_ = m.cmd.Process.Kill()
				<-m.waitCh
			}
		}
		_ = os.Remove(m.socketPath)
	})
}

// handleEvent routes player events. Runs on the IPC read goroutine, so
// property fetches hop onto a fresh goroutine.
func (m *MPV) handleEvent(ev Event) {
	switch ev.Name {
	case "file-loaded":
		m.mu.Lock()
		m.sawPlayback = true
		m.mu.Unlock()
		go m.handleFileLoaded()
	case "end-file":
		if ev.Reason != "" {
			m.logger.Debugf("track ended (%s)", ev.Reason)
		}
	case "client-message":
		if len(ev.Args) > 0 && ev.Args[0] == "radio-toggle" && m.onToggle != nil {
			m.onToggle()
		}
	case "idle":
		m.mu.Lock()
		drained := m.sawPlayback
		m.mu.Unlock()
		// mpv also reports idle at startup, before anything has played.
		if drained && m.onQueueEnd != nil {
			m.onQueueEnd()
		}
	}
}

// handleFileLoaded resolves the started track's URL and title, applies a
// session title override when radio mode stored one, and fires the
// track-start hook.
func (m *MPV) handleFileLoaded() {
	if m.ipc == nil {
		return
	}

	url, err := m.ipc.GetProperty("path")
	if err != nil || url == "" {
		m.logger.Warnf("failed to resolve path of started track: %v", err)
		return
	}

	title, ok := m.session.Get(url)
	if ok && title != "" {
		if err := m.ipc.SetProperty("force-media-title", title); err != nil {
			m.logger.Debugf("failed to set media title: %v", err)
		}
	} else {
		if mt, err := m.ipc.GetProperty("media-title"); err == nil && mt != "" {
			title = mt
		} else {
			title = url
		}
	}

	duration, err := m.ipc.GetPropertyFloat("duration")
	if err != nil {
		duration = 0
	}

	m.logger.Infof("now playing %q (%s)", title, url)
	if m.onTrackStart != nil {
		m.onTrackStart(Track{URL: url, Title: title, Duration: duration})
	}
}
