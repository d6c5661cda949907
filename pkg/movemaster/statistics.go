// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"sync"
	"time"
)

// Stats tracks link and protocol diagnostics. Faults local to one item
// (an unparsable listing entry, a write that failed) are absorbed by the
// operation that hit them and surface here instead.
type Stats struct {
	mu        sync.Mutex
	startTime time.Time

	framesIn      uint64
	framesOut     uint64
	writeErrors   uint64
	queryTimeouts uint64
	parseSkips    uint64
	alarms        uint64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Uptime        time.Duration
	FramesIn      uint64
	FramesOut     uint64
	WriteErrors   uint64
	QueryTimeouts uint64
	ParseSkips    uint64
	Alarms        uint64
}

// NewStats creates a zeroed counter set.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// CountFrameIn records one received frame.
func (s *Stats) CountFrameIn() { s.add(&s.framesIn) }

// CountFrameOut records one transmitted command.
func (s *Stats) CountFrameOut() { s.add(&s.framesOut) }

// CountWriteError records a failed transmit.
func (s *Stats) CountWriteError() { s.add(&s.writeErrors) }

// CountQueryTimeout records a wait that elapsed with no reply.
func (s *Stats) CountQueryTimeout() { s.add(&s.queryTimeouts) }

// CountParseSkip records a response that failed to parse and was skipped.
func (s *Stats) CountParseSkip() { s.add(&s.parseSkips) }

// CountAlarm records a device alarm fault.
func (s *Stats) CountAlarm() { s.add(&s.alarms) }

func (s *Stats) add(counter *uint64) {
	s.mu.Lock()
	*counter++
	s.mu.Unlock()
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		Uptime:        time.Since(s.startTime),
		FramesIn:      s.framesIn,
		FramesOut:     s.framesOut,
		WriteErrors:   s.writeErrors,
		QueryTimeouts: s.queryTimeouts,
		ParseSkips:    s.parseSkips,
		Alarms:        s.alarms,
	}
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = time.Now()
	s.framesIn = 0
	s.framesOut = 0
	s.writeErrors = 0
	s.queryTimeouts = 0
	s.parseSkips = 0
	s.alarms = 0
}

// String returns a formatted summary of the counters.
func (s StatsSnapshot) String() string {
	result := fmt.Sprintf("=== Link statistics (%.0f seconds) ===\n", s.Uptime.Seconds())
	result += fmt.Sprintf("Frames received: %8d\n", s.FramesIn)
	result += fmt.Sprintf("Commands sent:   %8d\n", s.FramesOut)
	if s.WriteErrors > 0 {
		result += fmt.Sprintf("Write errors:    %8d\n", s.WriteErrors)
	}
	if s.QueryTimeouts > 0 {
		result += fmt.Sprintf("Query timeouts:  %8d\n", s.QueryTimeouts)
	}
	if s.ParseSkips > 0 {
		result += fmt.Sprintf("Parse skips:     %8d\n", s.ParseSkips)
	}
	if s.Alarms > 0 {
		result += fmt.Sprintf("Device alarms:   %8d\n", s.Alarms)
	}
	result += "====================================\n"
	return result
}
