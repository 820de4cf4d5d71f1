package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/Kesomannen/gale/pkg/logger"
)

const (
	// stdoutScannerMaxToken bounds the size of a single JSONL message we
	// accept from the backend.
	//
	// bufio.Scanner defaults to a 64KiB token limit; backend replies can
	// exceed that when they include full mod listings.
	stdoutScannerMaxToken = 8 * 1024 * 1024

	// stderrCopyLimit bounds the amount of stderr we keep in memory for
	// error reporting.
	stderrCopyLimit = 64 * 1024
)

// ErrClosed is returned when a command cannot complete because the backend
// client has been closed.
var ErrClosed = errors.New("backend client closed")

// CommandError is a rejection from the backend for a single command. The
// backend reports failures as plain human-readable strings; Raw carries the
// string unmodified so the invoke layer can shape it for display.
type CommandError struct {
	Command string
	Raw     string
}

func (e *CommandError) Error() string { return e.Raw }

// EventHandler receives backend-pushed events (errors, loading bars,
// profile updates).
type EventHandler func(event string, payload json.RawMessage)

// Client manages the native backend subprocess and provides a
// command/event interface over its JSONL stdio protocol.
type Client struct {
	path  string
	debug bool

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu         sync.Mutex
	nextID     int64
	pending    map[int64]chan cmdResponse
	closed     bool
	started    bool
	eventFn    EventHandler
	waitOnce   sync.Once
	waitErr    error
	waitCh     chan struct{}
	stderrTail []byte
}

type cmdResponse struct {
	result json.RawMessage
	err    error
}

type wireMessage struct {
	ID      *int64          `json:"id,omitempty"`
	Command string          `json:"command,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *string         `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewClient creates an unstarted backend client for the given executable.
func NewClient(path string, debug bool) *Client {
	return &Client{
		path:    path,
		debug:   debug,
		pending: make(map[int64]chan cmdResponse),
		waitCh:  make(chan struct{}),
	}
}

// SetEventHandler sets the handler for backend-pushed events. It must be
// set before Start; events arriving without a handler are dropped.
func (c *Client) SetEventHandler(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventFn = handler
}

// Start spawns the backend process and begins reading its stdout stream.
func (c *Client) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("backend client is nil")
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	cmd := exec.CommandContext(ctx, c.path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		return err
	}

	c.mu.Lock()
	c.cmd = cmd
	c.stdin = stdin
	c.stdout = stdout
	c.stderr = stderr
	c.mu.Unlock()

	if err := cmd.Start(); err != nil {
		return err
	}

	go c.readStdout()
	go c.readStderr()
	return nil
}

// Close terminates the backend process and fails all pending commands.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cmd := c.cmd
	pending := c.pending
	c.pending = make(map[int64]chan cmdResponse)
	c.mu.Unlock()

	for _, ch := range pending {
		select {
		case ch <- cmdResponse{err: ErrClosed}:
		default:
		}
	}

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	return nil
}

// Wait waits for the underlying backend process to exit.
func (c *Client) Wait() error {
	if c == nil {
		return nil
	}
	c.waitOnce.Do(func() {
		defer close(c.waitCh)
		c.mu.Lock()
		cmd := c.cmd
		c.mu.Unlock()
		if cmd == nil {
			c.waitErr = nil
			return
		}
		c.waitErr = cmd.Wait()
	})
	<-c.waitCh
	return c.waitErr
}

// StderrTail returns the last bytes the backend wrote to stderr, for
// diagnostics when it dies unexpectedly.
func (c *Client) StderrTail() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	tail := make([]byte, len(c.stderrTail))
	copy(tail, c.stderrTail)
	return tail
}

// Notify sends a command without waiting for a reply (no id).
func (c *Client) Notify(command string, args map[string]any) error {
	if c == nil {
		return fmt.Errorf("backend client is nil")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return c.send(wireMessage{Command: command, Args: raw})
}

// Call sends a command and waits for the backend's reply. There is no
// client-side timeout: the backend is a trusted co-process over a local
// channel, and long operations (extractions, downloads) report progress
// through pushed events instead. The context still cancels the wait.
func (c *Client) Call(ctx context.Context, command string, args map[string]any) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("backend client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	id := atomic.AddInt64(&c.nextID, 1)

	respCh := make(chan cmdResponse, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = respCh
	c.mu.Unlock()

	if err := c.send(wireMessage{ID: &id, Command: command, Args: rawArgs}); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, ctx.Err()
	case resp := <-respCh:
		return resp.result, resp.err
	}
}

// readStdout reads newline-delimited JSON messages from the backend and
// dispatches events and command responses.
func (c *Client) readStdout() {
	c.mu.Lock()
	r := c.stdout
	debug := c.debug
	c.mu.Unlock()
	if r == nil {
		return
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), stdoutScannerMaxToken)
	for scanner.Scan() {
		line := scanner.Bytes()
		var msg wireMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			logger.Warnf("backend: dropped invalid JSONL message (len=%d): %v", len(line), err)
			continue
		}

		switch {
		case msg.Event != "":
			if debug {
				logger.Debugf("backend: event %s (bytes=%d)", msg.Event, len(line))
			}
			c.dispatchEvent(msg.Event, msg.Payload)
		case msg.ID != nil:
			if debug && msg.Error != nil {
				logger.Debugf("backend: response error (bytes=%d): %s", len(line), *msg.Error)
			}
			c.dispatchResponse(*msg.ID, msg.Command, msg.Result, msg.Error)
		default:
			if debug {
				logger.Debugf("backend: ignored message: %s", string(line))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Errorf("backend: stdout stream ended with error: %v", err)
	}
	_ = c.Close()
}

// readStderr captures a bounded tail of stderr for diagnostics.
func (c *Client) readStderr() {
	c.mu.Lock()
	r := c.stderr
	c.mu.Unlock()
	if r == nil {
		return
	}

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.appendStderrTail(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// appendStderrTail appends bytes to stderrTail, keeping only the last N bytes.
func (c *Client) appendStderrTail(chunk []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(chunk) == 0 {
		return
	}
	c.stderrTail = append(c.stderrTail, chunk...)
	if len(c.stderrTail) > stderrCopyLimit {
		c.stderrTail = c.stderrTail[len(c.stderrTail)-stderrCopyLimit:]
	}
}

// dispatchEvent forwards a pushed event to the handler.
func (c *Client) dispatchEvent(event string, payload json.RawMessage) {
	c.mu.Lock()
	handler := c.eventFn
	debug := c.debug
	c.mu.Unlock()
	if handler == nil {
		if debug {
			logger.Warnf("backend: event dropped (no handler): %s", event)
		}
		return
	}
	handler(event, payload)
}

// dispatchResponse resolves a pending command.
func (c *Client) dispatchResponse(id int64, command string, result json.RawMessage, errStr *string) {
	c.mu.Lock()
	ch := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if ch == nil {
		return
	}

	if errStr != nil {
		ch <- cmdResponse{err: &CommandError{Command: command, Raw: *errStr}}
		return
	}
	ch <- cmdResponse{result: result, err: nil}
}

// send writes a single JSONL message to the backend's stdin.
func (c *Client) send(msg wireMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.stdin == nil {
		return fmt.Errorf("backend stdin not initialized")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = c.stdin.Write(raw)
	return err
}
