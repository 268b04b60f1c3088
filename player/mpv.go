package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/samber/lo"
)

const (
	eventBuffer      = 64
	maxLineSize      = 1 << 20
	transportSettle  = 200 * time.Millisecond
	defaultRetries   = 30
	defaultInterval  = 100 * time.Millisecond
	defaultGrace     = 3 * time.Second
	defaultWriteWait = time.Second
)

// Options configure a Manager. Zero values take defaults.
type Options struct {
	// Binary is the player executable, "mpv" by default.
	Binary string
	// Prefix is placed before the generated flags.
	Prefix []string
	// ExtraArgs are appended after the generated flags.
	ExtraArgs []string
	// Env is added to the inherited environment.
	Env []string

	SocketPath      string
	ConnectRetries  int
	ConnectInterval time.Duration
	GracePeriod     time.Duration
	WriteTimeout    time.Duration
}

// Manager implements Player on top of mpv's JSON-IPC protocol.
type Manager struct {
	options Options
	events  chan Event
	closed  chan struct{}
	close   sync.Once

	mu       sync.Mutex
	handle   *handle
	starting bool
}

// handle is the process and connection of one session. Nothing outside the
// Manager ever sees it.
type handle struct {
	cmd    *exec.Cmd
	conn   net.Conn
	nextID atomic.Int64
	tags   *loadTags

	writeMu sync.Mutex

	// stopping is set before any exit we cause ourselves
	stopping atomic.Bool

	exited   chan struct{}
	readDone chan struct{}
	// done is closed once the handle has been detached from the manager
	done chan struct{}
}

var _ Player = (*Manager)(nil)

// NewManager creates a Manager. No process is spawned until Start.
func NewManager(options Options) *Manager {
	if options.Binary == "" {
		options.Binary = "mpv"
	}
	if options.ConnectRetries <= 0 {
		options.ConnectRetries = defaultRetries
	}
	if options.ConnectInterval <= 0 {
		options.ConnectInterval = defaultInterval
	}
	if options.GracePeriod <= 0 {
		options.GracePeriod = defaultGrace
	}
	if options.WriteTimeout <= 0 {
		options.WriteTimeout = defaultWriteWait
	}

	return &Manager{
		options: options,
		events:  make(chan Event, eventBuffer),
		closed:  make(chan struct{}),
	}
}

// Socket returns the control channel path.
func (m *Manager) Socket() string {
	return m.options.SocketPath
}

func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) Running() bool {
	return m.current() != nil
}

func (m *Manager) current() *handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return nil
	}

	select {
	case <-m.handle.exited:
		return nil
	default:
		return m.handle
	}
}

func (m *Manager) args() []string {
	args := append([]string{}, m.options.Prefix...)
	args = append(args,
		"--no-video",
		"--idle=yes",
		"--no-terminal",
		"--really-quiet",
		"--cache=yes",
		fmt.Sprintf("--input-ipc-server=%s", m.options.SocketPath),
	)
	return append(args, m.options.ExtraArgs...)
}

func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	for m.handle != nil && !m.starting {
		h := m.handle
		select {
		case <-h.exited:
		default:
			m.mu.Unlock()
			return nil
		}
		m.mu.Unlock()

		// the process is gone but supervise has not detached it yet
		select {
		case <-h.done:
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrStartup, ctx.Err())
		}
		m.mu.Lock()
	}
	if m.starting {
		m.mu.Unlock()
		return nil
	}
	if m.options.SocketPath == "" {
		m.mu.Unlock()
		return fmt.Errorf("%w: no control socket path configured", ErrStartup)
	}
	m.starting = true
	m.mu.Unlock()

	h, err := m.spawn(ctx)

	m.mu.Lock()
	m.starting = false
	if err == nil {
		m.handle = h
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}

	go h.readLoop(m)
	go m.supervise(h)

	for id, name := range observed {
		if err := m.send(h, "observe_property", id, name); err != nil {
			log.Warnf("observe %s: %v", name, err)
		}
	}

	log.Infof("player ready on %s (pid %d)", m.options.SocketPath, h.cmd.Process.Pid)
	return nil
}

func (m *Manager) spawn(ctx context.Context) (*handle, error) {
	removeSocket(m.options.SocketPath)

	cmd := exec.Command(m.options.Binary, m.args()...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil
	if len(m.options.Env) > 0 {
		cmd.Env = append(os.Environ(), m.options.Env...)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: spawn %s: %v", ErrStartup, m.options.Binary, err)
	}

	h := &handle{
		cmd:      cmd,
		tags:     newLoadTags(),
		exited:   make(chan struct{}),
		readDone: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		close(h.exited)
	}()

	conn, err := m.waitForSocket(ctx, h)
	if err != nil {
		h.stopping.Store(true)
		_ = killProcess(cmd)
		<-h.exited
		removeSocket(m.options.SocketPath)
		return nil, fmt.Errorf("%w: %v", ErrStartup, err)
	}

	h.conn = conn
	return h, nil
}

// waitForSocket polls until the control socket accepts a connection and returns it.
func (m *Manager) waitForSocket(ctx context.Context, h *handle) (net.Conn, error) {
	var lastErr error

	for attempt := 0; attempt < m.options.ConnectRetries; attempt++ {
		select {
		case <-h.exited:
			return nil, errors.New("player exited before the socket was ready")
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		conn, err := net.DialTimeout("unix", m.options.SocketPath, m.options.ConnectInterval)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		select {
		case <-time.After(m.options.ConnectInterval):
		case <-h.exited:
		case <-ctx.Done():
		}
	}

	return nil, fmt.Errorf("socket %s not ready after %d attempts: %v", m.options.SocketPath, m.options.ConnectRetries, lastErr)
}

// supervise waits for the session to end one way or another and reports it.
func (m *Manager) supervise(h *handle) {
	var ev Event

	select {
	case <-h.exited:
	case <-h.readDone:
		select {
		case <-h.exited:
		case <-time.After(transportSettle):
			if !h.stopping.Load() {
				ev = TransportError{Reason: "control connection closed"}
				log.Warnf("player transport failed, killing pid %d", h.cmd.Process.Pid)
			}
			h.stopping.Store(true)
			_ = killProcess(h.cmd)
			<-h.exited
		}
	}

	// drain whatever the reader still holds so events keep their order
	_ = h.conn.Close()
	<-h.readDone

	if ev == nil && !h.stopping.Load() {
		code := h.cmd.ProcessState.ExitCode()
		ev = ProcessExited{Code: code}
		log.Warnf("player exited unexpectedly with code %d", code)
	}

	m.mu.Lock()
	if m.handle == h {
		m.handle = nil
	}
	m.mu.Unlock()
	close(h.done)

	if ev != nil {
		m.emit(ev)
	}
}

func (h *handle) readLoop(m *Manager) {
	defer close(h.readDone)

	scanner := bufio.NewScanner(h.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	tr := newTranslator(h.tags)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		msg, err := decodeMessage(line)
		if err != nil {
			log.Debugf("skipping unparseable player line: %v", err)
			continue
		}

		if msg.isReply() {
			tr.reply(msg)
			if msg.Error != "" && msg.Error != "success" {
				log.Warnf("player rejected request %d: %s", *msg.RequestID, msg.Error)
			}
			continue
		}

		if ev, ok := tr.translate(msg); ok {
			m.emit(ev)
		}
	}

	if err := scanner.Err(); err != nil && !h.stopping.Load() {
		log.Debugf("player read loop ended: %v", err)
	}
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	case <-m.closed:
	}
}

func (m *Manager) send(h *handle, args ...any) error {
	if h == nil {
		return ErrNotRunning
	}

	return m.write(h, h.nextID.Add(1), args...)
}

func (m *Manager) write(h *handle, id int64, args ...any) error {
	payload, err := encodeCommand(id, args...)
	if err != nil {
		return err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if err := h.conn.SetWriteDeadline(time.Now().Add(m.options.WriteTimeout)); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if _, err := h.conn.Write(payload); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return nil
}

func (m *Manager) command(args ...any) error {
	return m.send(m.current(), args...)
}

func (m *Manager) Load(rawURL string, tag uint64) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	h := m.current()
	if h == nil {
		return ErrNotRunning
	}

	id := h.nextID.Add(1)
	h.tags.expect(id, tag)
	if err := m.write(h, id, "loadfile", target, "replace"); err != nil {
		h.tags.drop(id)
		return err
	}
	return nil
}

func (m *Manager) Pause() error {
	return m.command("set_property", "pause", true)
}

func (m *Manager) Resume() error {
	return m.command("set_property", "pause", false)
}

func (m *Manager) Stop() error {
	return m.command("stop")
}

func (m *Manager) SetVolume(volume int) error {
	return m.command("set_property", "volume", lo.Clamp(volume, 0, 100))
}

func (m *Manager) Seek(offset time.Duration) error {
	return m.command("seek", offset.Seconds(), "relative")
}

func (m *Manager) Shutdown(ctx context.Context) error {
	h := m.current()
	if h == nil {
		removeSocket(m.options.SocketPath)
		return nil
	}

	h.stopping.Store(true)
	_ = m.send(h, "quit")

	select {
	case <-h.exited:
	case <-time.After(m.options.GracePeriod):
		log.Warnf("player did not quit within %s, killing pid %d", m.options.GracePeriod, h.cmd.Process.Pid)
		_ = killProcess(h.cmd)
	case <-ctx.Done():
		_ = killProcess(h.cmd)
	}

	<-h.done
	removeSocket(m.options.SocketPath)
	log.Info("player shut down")

	return nil
}

// Close stops event delivery and shuts the player down. Use it when the
// consumer of Events is going away.
func (m *Manager) Close() error {
	m.close.Do(func() { close(m.closed) })
	return m.Shutdown(context.Background())
}

func removeSocket(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debugf("remove stale socket %s: %v", path, err)
	}
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// a leading dash would be read as an option
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
