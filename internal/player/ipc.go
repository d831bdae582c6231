package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sablewood/driftplay/internal/shared"
)

// requestTimeout bounds how long a command waits for its reply.
const requestTimeout = 5 * time.Second

// request is one outgoing JSON IPC frame.
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// response is one incoming frame: either a command reply (request_id set)
// or an event notification (event set).
type response struct {
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID int64           `json:"request_id,omitempty"`
	Event     string          `json:"event,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Args      []string        `json:"args,omitempty"`
}

// Event is an unsolicited notification from the player. Args carries the
// payload of script-message (client-message) events.
type Event struct {
	Name   string
	Reason string
	Args   []string
}

// IPC is a client for mpv's newline-delimited JSON IPC protocol.
//
// The event callback runs on the read goroutine: it must return quickly and
// must not issue IPC requests, or the read loop deadlocks waiting on itself.
type IPC struct {
	conn    net.Conn
	onEvent func(Event)
	logger  *log.Logger

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan response
	closed  bool
}

// NewIPC wraps an established connection and starts the read loop. onEvent
// may be nil when the caller only issues commands.
func NewIPC(conn net.Conn, onEvent func(Event), logger *log.Logger) *IPC {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	c := &IPC{
		conn:    conn,
		onEvent: onEvent,
		logger:  logger,
		pending: map[int64]chan response{},
	}
	go c.readLoop()
	return c
}

// Send issues one command and waits for its reply, returning the raw data
// payload. Arguments pass through as-is so numeric parameters stay numbers
// on the wire.
func (c *IPC) Send(args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, shared.ErrIPCClosed
	}
	c.nextID++
	id := c.nextID
	reply := make(chan response, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	payload, err := json.Marshal(request{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to encode IPC command: %w", err)
	}
	payload = append(payload, '\n')

	if _, err := c.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIPCClosed, err)
	}

	select {
	case resp, ok := <-reply:
		if !ok {
			return nil, shared.ErrIPCClosed
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("player rejected command: %s", resp.Error)
		}
		return resp.Data, nil
	case <-time.After(requestTimeout):
		return nil, shared.ErrIPCTimeout
	}
}

// Command issues a string-only command, discarding any data payload.
func (c *IPC) Command(args ...string) error {
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	_, err := c.Send(anyArgs...)
	return err
}

// GetProperty fetches a property value rendered as a string.
func (c *IPC) GetProperty(name string) (string, error) {
	data, err := c.Send("get_property", name)
	if err != nil {
		return "", err
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("failed to decode property %s: %w", name, err)
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// GetPropertyFloat fetches a numeric property.
func (c *IPC) GetPropertyFloat(name string) (float64, error) {
	data, err := c.Send("get_property", name)
	if err != nil {
		return 0, err
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, fmt.Errorf("failed to decode property %s: %w", name, err)
	}
	return value, nil
}

// SetProperty assigns a property value.
func (c *IPC) SetProperty(name string, value any) error {
	_, err := c.Send("set_property", name, value)
	return err
}

// Close shuts the connection down and fails all in-flight requests.
// Idempotent.
func (c *IPC) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for id, reply := range c.pending {
		close(reply)
		delete(c.pending, id)
	}
	c.mu.Unlock()

	return c.conn.Close()
}

// readLoop decodes incoming frames until the connection dies, routing
// replies to their waiters and events to the callback.
func (c *IPC) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			// Free-form log output on the socket is not an error.
			continue
		}

		if resp.Event != "" {
			if c.onEvent != nil {
				c.onEvent(Event{Name: resp.Event, Reason: resp.Reason, Args: resp.Args})
			}
			continue
		}

		// The send happens under the lock; Close closes pending channels
		// under the same lock, so a reply can never hit a just-closed
		// channel.
		c.mu.Lock()
		if reply, ok := c.pending[resp.RequestID]; ok {
			select {
			case reply <- resp:
			default:
			}
		}
		c.mu.Unlock()
	}

	c.Close()
}
