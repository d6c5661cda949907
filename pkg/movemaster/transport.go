// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Dialer opens the underlying byte stream for a named port. The default
// dialer opens a physical serial port; tests and the WebSocket bridge
// substitute their own.
type Dialer func(portName string, settings *Settings) (io.ReadWriteCloser, error)

// StatusHandler receives edge-triggered connectivity transitions.
type StatusHandler func(oldStatus, newStatus bool)

// FrameHandler receives every raw frame as it is enqueued, terminator
// included.
type FrameHandler func(frame string)

// SerialDialer opens a physical serial port per the link settings.
// The baud/data/parity/stop combination is validated here, at open time.
func SerialDialer(portName string, settings *Settings) (io.ReadWriteCloser, error) {
	mode, err := settings.Mode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("movemaster: open port %s: %w", portName, err)
	}
	if err := port.SetRTS(settings.RtsEnable); err != nil {
		port.Close()
		return nil, fmt.Errorf("movemaster: set RTS on %s: %w", portName, err)
	}
	if settings.ReadTimeout > 0 {
		if err := port.SetReadTimeout(time.Duration(settings.ReadTimeout) * time.Millisecond); err != nil {
			port.Close()
			return nil, fmt.Errorf("movemaster: set read timeout on %s: %w", portName, err)
		}
	}
	return port, nil
}

// Transport owns the physical link and frames the raw byte stream into
// carriage-return-delimited messages. Received frames are buffered in an
// unbounded FIFO; Read is destructive and non-blocking.
type Transport struct {
	settings *Settings
	dial     Dialer
	log      *logrus.Entry
	stats    *Stats

	mu       sync.Mutex
	conn     io.ReadWriteCloser
	opened   bool
	portName string
	frames   []string
	notify   chan struct{}

	statusHandlers []StatusHandler
	frameHandlers  []FrameHandler

	// Timing knobs, defaulted from the protocol constants. Tests shorten
	// them.
	OpenSettle  time.Duration
	WaitTimeout time.Duration
	Heartbeat   time.Duration

	done     chan struct{}
	shutdown sync.Once
}

// NewTransport creates a transport that opens physical serial ports.
func NewTransport(settings *Settings) *Transport {
	return NewTransportWithDialer(settings, SerialDialer)
}

// NewTransportWithDialer creates a transport over a custom byte-stream
// dialer (WebSocket bridge, test double).
func NewTransportWithDialer(settings *Settings, dial Dialer) *Transport {
	t := &Transport{
		settings:    settings,
		dial:        dial,
		log:         logrus.NewEntry(logrus.StandardLogger()),
		stats:       NewStats(),
		notify:      make(chan struct{}, 1),
		OpenSettle:  OpenSettleDelay,
		WaitTimeout: WaitFrameTimeout,
		Heartbeat:   HeartbeatInterval,
		done:        make(chan struct{}),
	}
	go t.heartbeat()
	return t
}

// SetLogger replaces the transport's log sink.
func (t *Transport) SetLogger(log *logrus.Entry) {
	t.log = log
}

// Stats returns the transport's diagnostics counters.
func (t *Transport) Stats() *Stats {
	return t.stats
}

// OnStatusChanged registers a connectivity transition handler. Handlers
// fire exactly once per true transition, never on repeated samples of the
// same state.
func (t *Transport) OnStatusChanged(h StatusHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusHandlers = append(t.statusHandlers, h)
}

// OnFrame registers a raw frame observer.
func (t *Transport) OnFrame(h FrameHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frameHandlers = append(t.frameHandlers, h)
}

// Opened reports whether the link is currently open.
func (t *Transport) Opened() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opened
}

// PortName returns the identifier passed to the last successful Open.
func (t *Transport) PortName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.portName
}

// Open binds the named port and starts the receive loop. Opening an
// already-open transport is a no-op. The call blocks through the post-open
// settle delay; the controller needs it before the first command.
func (t *Transport) Open(portName string) error {
	t.mu.Lock()
	if t.opened {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	conn, err := t.dial(portName, t.settings)
	if err != nil {
		t.log.WithError(err).WithField("port", portName).Error("open failed")
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.opened = true
	t.portName = portName
	t.mu.Unlock()

	go t.receiveLoop(conn)

	time.Sleep(t.OpenSettle)
	return nil
}

// Close shuts the link. Closing an already-closed transport is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	if !t.opened {
		t.mu.Unlock()
		return nil
	}
	conn := t.conn
	t.conn = nil
	t.opened = false
	t.mu.Unlock()
	return conn.Close()
}

// Shutdown stops the connectivity monitor and closes the link. The
// transport cannot be reused afterwards.
func (t *Transport) Shutdown() {
	t.shutdown.Do(func() { close(t.done) })
	t.Close()
}

// Write appends the configured terminator and transmits the command.
// Delivery is best effort: the error is reported for diagnostics, but
// callers cannot assume anything about the device having received the
// bytes even on success.
func (t *Transport) Write(command string) error {
	t.mu.Lock()
	conn := t.conn
	opened := t.opened
	t.mu.Unlock()

	if !opened || conn == nil {
		return ErrNotConnected
	}
	if _, err := conn.Write([]byte(command + t.settings.Terminator.Bytes())); err != nil {
		t.stats.CountWriteError()
		t.log.WithError(err).WithField("command", command).Warn("write failed")
		return err
	}
	t.stats.CountFrameOut()
	return nil
}

// Read dequeues and returns the oldest buffered frame, terminator
// included, or an empty string when none is pending.
func (t *Transport) Read() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.frames) == 0 {
		return ""
	}
	frame := t.frames[0]
	t.frames = t.frames[1:]
	return frame
}

// WaitForFrame blocks until at least one frame is buffered, the wait
// timeout elapses, or the context is cancelled. On timeout it gives up
// silently; the caller's subsequent Read observes emptiness.
func (t *Transport) WaitForFrame(ctx context.Context) {
	deadline := time.NewTimer(t.WaitTimeout)
	defer deadline.Stop()

	for {
		t.mu.Lock()
		pending := len(t.frames)
		t.mu.Unlock()
		if pending > 0 {
			return
		}

		select {
		case <-t.notify:
		case <-deadline.C:
			t.stats.CountQueryTimeout()
			return
		case <-ctx.Done():
			return
		case <-t.done:
			return
		}
	}
}

// receiveLoop accumulates incoming bytes and cuts a frame at every
// carriage return. The frame keeps its terminator; consumers strip it for
// content and compare it verbatim for sentinels.
func (t *Transport) receiveLoop(conn io.ReadWriteCloser) {
	buf := make([]byte, 256)
	var acc []byte

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			acc = append(acc, buf[:n]...)
			for {
				idx := bytes.IndexByte(acc, '\r')
				if idx < 0 {
					break
				}
				frame := string(acc[:idx+1])
				acc = append(acc[:0], acc[idx+1:]...)
				t.enqueue(frame)
			}
		}
		if err != nil {
			t.mu.Lock()
			stillOurs := t.conn == conn
			if stillOurs {
				t.conn = nil
				t.opened = false
			}
			t.mu.Unlock()
			if stillOurs && err != io.EOF {
				t.log.WithError(err).Warn("receive loop stopped")
			}
			return
		}
	}
}

func (t *Transport) enqueue(frame string) {
	t.mu.Lock()
	t.frames = append(t.frames, frame)
	handlers := make([]FrameHandler, len(t.frameHandlers))
	copy(handlers, t.frameHandlers)
	t.mu.Unlock()

	t.stats.CountFrameIn()
	select {
	case t.notify <- struct{}{}:
	default:
	}
	for _, h := range handlers {
		h(frame)
	}
}

// heartbeat samples connectivity at a fixed period and raises the
// status-changed handlers only when the observed state flips.
func (t *Transport) heartbeat() {
	oldStatus := t.Opened()

	for {
		select {
		case <-t.done:
			return
		case <-time.After(t.Heartbeat):
		}

		newStatus := t.Opened()
		if newStatus != oldStatus {
			t.mu.Lock()
			handlers := make([]StatusHandler, len(t.statusHandlers))
			copy(handlers, t.statusHandlers)
			t.mu.Unlock()
			for _, h := range handlers {
				h(oldStatus, newStatus)
			}
		}
		oldStatus = newStatus
	}
}

// TrimFrame strips the terminator characters from a received frame,
// leaving the content. Sentinel detection compares the raw frame instead.
func TrimFrame(frame string) string {
	return string(bytes.TrimRight([]byte(frame), "\r\n"))
}
