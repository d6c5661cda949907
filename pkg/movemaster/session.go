// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"sync/atomic"
)

// Session is the correlation boundary over a Transport. Reply frames carry
// no request IDs; correlation is purely positional, so a write that expects
// a reply must be followed by exactly one wait-and-read before any other
// write. Session makes that discipline structural: Send and Query are the
// only operations, and Query holds a single-slot in-flight guard so a
// concurrent query fails fast instead of silently mis-pairing frames.
type Session struct {
	transport *Transport
	inflight  atomic.Bool
}

// NewSession wraps a transport in the query/send discipline.
func NewSession(transport *Transport) *Session {
	return &Session{transport: transport}
}

// Transport exposes the underlying transport for lifecycle and
// subscription calls. Frame-level reads must go through Query.
func (s *Session) Transport() *Transport {
	return s.transport
}

// Send transmits a fire-and-forget command.
func (s *Session) Send(command string) error {
	return s.transport.Write(command)
}

// Query transmits a command and returns the next received frame, raw,
// terminator included. At most one query may be outstanding per session;
// a second concurrent call returns ErrQueryInFlight. A missing reply
// returns ErrNoReply so callers can tell a dead link from an empty answer.
func (s *Session) Query(ctx context.Context, command string) (string, error) {
	if !s.inflight.CompareAndSwap(false, true) {
		return "", ErrQueryInFlight
	}
	defer s.inflight.Store(false)

	if err := s.transport.Write(command); err != nil {
		return "", err
	}
	s.transport.WaitForFrame(ctx)
	frame := s.transport.Read()
	if frame == "" {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", ErrNoReply
	}
	return frame, nil
}
