// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedConn is an in-memory serial endpoint. Every write is recorded;
// the respond callback decides which reply frames, raw with terminator,
// the device sends back.
type scriptedConn struct {
	mu      sync.Mutex
	writes  []string
	respond func(cmd string) []string
	rx      chan string
	closed  chan struct{}
	once    sync.Once
}

func newScriptedConn(respond func(cmd string) []string) *scriptedConn {
	return &scriptedConn{
		respond: respond,
		rx:      make(chan string, 64),
		closed:  make(chan struct{}),
	}
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	select {
	case chunk := <-c.rx:
		return copy(p, chunk), nil
	case <-c.closed:
		return 0, io.EOF
	}
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	cmd := strings.TrimSuffix(string(p), "\r")
	c.mu.Lock()
	c.writes = append(c.writes, cmd)
	c.mu.Unlock()
	if c.respond != nil {
		for _, reply := range c.respond(cmd) {
			c.rx <- reply
		}
	}
	return len(p), nil
}

func (c *scriptedConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// feed injects device-initiated bytes, bypassing the respond script.
func (c *scriptedConn) feed(chunk string) {
	c.rx <- chunk
}

func (c *scriptedConn) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.writes))
	copy(out, c.writes)
	return out
}

// newTestTransport wires a transport to a scripted connection with test
// timing: no open settle, a short wait timeout and a fast heartbeat.
func newTestTransport(t *testing.T, respond func(cmd string) []string) (*Transport, *scriptedConn) {
	t.Helper()
	conn := newScriptedConn(respond)
	tr := NewTransportWithDialer(DefaultSettings(), func(string, *Settings) (io.ReadWriteCloser, error) {
		return conn, nil
	})
	tr.OpenSettle = 0
	tr.WaitTimeout = 200 * time.Millisecond
	tr.Heartbeat = 5 * time.Millisecond
	t.Cleanup(tr.Shutdown)
	return tr, conn
}

func waitForFrameCount(t *testing.T, tr *Transport, want uint64) {
	t.Helper()
	deadline := time.After(time.Second)
	for tr.Stats().Snapshot().FramesIn < want {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d frames, have %d", want, tr.Stats().Snapshot().FramesIn)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestTransportSplitsFramesAtCarriageReturn(t *testing.T) {
	tr, conn := newTestTransport(t, nil)
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	conn.feed("ABC\rDE")
	conn.feed("F\r")
	waitForFrameCount(t, tr, 2)

	if got := tr.Read(); got != "ABC\r" {
		t.Errorf("first frame = %q, want %q", got, "ABC\r")
	}
	if got := tr.Read(); got != "DEF\r" {
		t.Errorf("second frame = %q, want %q", got, "DEF\r")
	}
	if got := tr.Read(); got != "" {
		t.Errorf("empty queue read = %q, want empty", got)
	}
}

func TestTransportWriteAppendsTerminator(t *testing.T) {
	tr, conn := newTestTransport(t, nil)
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	if err := tr.Write("WH"); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	writes := conn.Writes()
	if len(writes) != 1 || writes[0] != "WH" {
		t.Errorf("recorded writes = %v, want [WH]", writes)
	}
}

func TestTransportWriteWhenClosed(t *testing.T) {
	tr, _ := newTestTransport(t, nil)
	if err := tr.Write("WH"); err != ErrNotConnected {
		t.Errorf("Write() = %v, want ErrNotConnected", err)
	}
}

func TestTransportOpenIsIdempotent(t *testing.T) {
	tr, _ := newTestTransport(t, nil)
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}
	if err := tr.Open("TEST"); err != nil {
		t.Errorf("second Open() = %v, want nil", err)
	}
	if got := tr.PortName(); got != "TEST" {
		t.Errorf("PortName() = %q, want %q", got, "TEST")
	}
}

func TestWaitForFrameGivesUpSilently(t *testing.T) {
	tr, _ := newTestTransport(t, nil)
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	start := time.Now()
	tr.WaitForFrame(context.Background())
	elapsed := time.Since(start)

	if elapsed < tr.WaitTimeout {
		t.Errorf("gave up after %v, want at least %v", elapsed, tr.WaitTimeout)
	}
	if got := tr.Read(); got != "" {
		t.Errorf("Read() after timeout = %q, want empty", got)
	}
	if got := tr.Stats().Snapshot().QueryTimeouts; got != 1 {
		t.Errorf("query timeouts = %d, want 1", got)
	}
}

func TestWaitForFrameReturnsOnArrival(t *testing.T) {
	tr, conn := newTestTransport(t, nil)
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		conn.feed("+10.5\r")
	}()

	tr.WaitForFrame(context.Background())
	waitForFrameCount(t, tr, 1)
	if got := tr.Read(); got != "+10.5\r" {
		t.Errorf("Read() = %q, want %q", got, "+10.5\r")
	}
}

func TestHeartbeatFiresOncePerTransition(t *testing.T) {
	tr, _ := newTestTransport(t, nil)

	var mu sync.Mutex
	var transitions [][2]bool
	tr.OnStatusChanged(func(oldStatus, newStatus bool) {
		mu.Lock()
		transitions = append(transitions, [2]bool{oldStatus, newStatus})
		mu.Unlock()
	})

	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	tr.Close()
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	want := [][2]bool{{false, true}, {true, false}}
	if len(transitions) != len(want) {
		t.Fatalf("got %d transitions %v, want %d", len(transitions), transitions, len(want))
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], want[i])
		}
	}
}

func TestSessionQueryReturnsRawReply(t *testing.T) {
	tr, _ := newTestTransport(t, func(cmd string) []string {
		if cmd == "ER" {
			return []string{"105\r"}
		}
		return nil
	})
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	session := NewSession(tr)
	frame, err := session.Query(context.Background(), "ER")
	if err != nil {
		t.Fatalf("Query() = %v", err)
	}
	if frame != "105\r" {
		t.Errorf("Query() frame = %q, want %q including terminator", frame, "105\r")
	}
}

func TestSessionQueryNoReply(t *testing.T) {
	tr, _ := newTestTransport(t, nil)
	tr.WaitTimeout = 30 * time.Millisecond
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	session := NewSession(tr)
	if _, err := session.Query(context.Background(), "ER"); err != ErrNoReply {
		t.Errorf("Query() = %v, want ErrNoReply", err)
	}
}

func TestSessionRejectsConcurrentQuery(t *testing.T) {
	tr, _ := newTestTransport(t, nil)
	if err := tr.Open("TEST"); err != nil {
		t.Fatalf("Open() = %v", err)
	}

	session := NewSession(tr)
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		session.Query(context.Background(), "ER")
		close(done)
	}()

	<-started
	time.Sleep(10 * time.Millisecond)
	if _, err := session.Query(context.Background(), "WH"); err != ErrQueryInFlight {
		t.Errorf("concurrent Query() = %v, want ErrQueryInFlight", err)
	}
	<-done
}

func TestTrimFrame(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ABC\r", "ABC"},
		{"ABC\r\n", "ABC"},
		{"ABC", "ABC"},
		{"\r", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TrimFrame(tt.in); got != tt.want {
			t.Errorf("TrimFrame(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
