// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ProgressEvent labels a notification raised by a long transfer
// operation.
type ProgressEvent int

const (
	EventProgramDownloaded ProgressEvent = iota
	EventProgramUploaded
	EventLineUploaded
)

var progressEventNames = map[ProgressEvent]string{
	EventProgramDownloaded: "Program Downloaded",
	EventProgramUploaded:   "Program Uploaded",
	EventLineUploaded:      "Line Uploaded",
}

func (e ProgressEvent) String() string {
	if name, ok := progressEventNames[e]; ok {
		return name
	}
	return "Unknown Event"
}

// ProgressFunc receives one notification per completed transfer step:
// the program name, the 1-based step, the total step count and the event
// kind.
type ProgressFunc func(name string, step, total int, event ProgressEvent)

// End-of-listing sentinel: a reply of exactly "QoK" closes the directory
// loop. The bare form is compared against the raw frame, terminator
// included; the padded form is matched after normalization.
var listingSentinel = regexp.MustCompile(`^QoK\s*$`)

func endOfListing(frame string) bool {
	return frame == "QoK\r" || listingSentinel.MatchString(frame)
}

// Service orchestrates the multi-frame program transfer protocols:
// directory listing, line-by-line download and upload, delete, run and
// stop. Every operation is gated on an open link; when the link is down
// the operation is a no-op, not an error. Cancellation is cooperative:
// it is checked between protocol steps, never pre-empts an in-flight
// write or wait, and long operations return whatever partial result
// exists at the cancellation point.
type Service struct {
	manipulator *Manipulator
	log         *logrus.Entry
	progress    ProgressFunc

	// Pacing knobs, defaulted from the protocol constants. Tests shorten
	// them.
	SelectSettle time.Duration
	LineDelay    time.Duration
	StopSettle   time.Duration
}

// NewService creates a transfer service over the manipulator.
func NewService(manipulator *Manipulator) *Service {
	return &Service{
		manipulator:  manipulator,
		log:          logrus.WithField("component", "service"),
		SelectSettle: SelectSettleDelay,
		LineDelay:    UploadLineDelay,
		StopSettle:   StopSettleDelay,
	}
}

// SetLogger replaces the service's log sink.
func (s *Service) SetLogger(log *logrus.Entry) {
	s.log = log
}

// OnProgress registers the progress sink. A nil sink disables
// notifications.
func (s *Service) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

func (s *Service) notify(name string, step, total int, event ProgressEvent) {
	if s.progress != nil {
		s.progress(name, step, total, event)
	}
}

// pause sleeps for the pacing delay unless the context is cancelled
// first. It reports whether the operation should continue.
func (s *Service) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Service) stats() *Stats {
	return s.manipulator.Transport().Stats()
}

// ReadProgramInfo lists the programs stored on the controller. Pages are
// requested one at a time until the end-of-listing sentinel arrives;
// unparsable entries are skipped and counted, not raised. Cancellation
// or a dead reply stops the loop and returns what was collected so far.
func (s *Service) ReadProgramInfo(ctx context.Context) []*RemoteProgram {
	if !s.manipulator.Connected() {
		return nil
	}

	var programs []*RemoteProgram
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			return programs
		}
		frame, err := s.manipulator.QueryDirectory(ctx, page)
		if err != nil {
			s.log.WithError(err).WithField("page", page).Warn("directory listing stopped")
			return programs
		}
		if endOfListing(frame) {
			return programs
		}
		remote := ParseRemoteProgram(frame)
		if remote == nil {
			s.stats().CountParseSkip()
			s.log.WithField("frame", TrimFrame(frame)).Debug("skipping unparsable directory entry")
			continue
		}
		programs = append(programs, remote)
	}
}

// DownloadProgram reads the named program line by line. A nonzero error
// status after program selection aborts with an AlarmError carrying the
// device's code; this is the one device fault that is raised instead of
// absorbed. A bare carriage-return step reply ends the content. On
// cancellation the partially assembled program is returned without an
// error; a dead reply mid-transfer returns the partial program alongside
// the error.
func (s *Service) DownloadProgram(ctx context.Context, name string) (*Program, error) {
	if !s.manipulator.Connected() {
		return nil, nil
	}

	program := NewProgram(name)
	if err := s.manipulator.Number(name); err != nil {
		return program, err
	}
	if !s.pause(ctx, s.SelectSettle) {
		return program, nil
	}

	code, err := s.manipulator.ErrorRead(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return program, nil
		}
		return program, err
	}
	if code != 0 {
		s.stats().CountAlarm()
		return program, &AlarmError{Code: code}
	}

	var lines []string
	for step := uint(1); ; step++ {
		if ctx.Err() != nil {
			break
		}
		frame, err := s.manipulator.StepRead(ctx, step)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			program.Content = strings.Join(lines, "\n")
			return program, err
		}
		if frame == "\r" {
			break
		}
		lines = append(lines, TrimFrame(frame))
	}
	program.Content = strings.Join(lines, "\n")
	return program, nil
}

// DownloadPrograms downloads each listed program in order, raising one
// progress notification per completed program. Cancellation returns the
// completed subset; an alarm aborts the remainder and surfaces the
// error together with the programs already read.
func (s *Service) DownloadPrograms(ctx context.Context, remotes []*RemoteProgram) ([]*Program, error) {
	if !s.manipulator.Connected() {
		return nil, nil
	}

	var programs []*Program
	total := len(remotes)
	for i, remote := range remotes {
		if ctx.Err() != nil {
			return programs, nil
		}
		program, err := s.DownloadProgram(ctx, remote.Name)
		if program != nil {
			program.Size = remote.Size
			program.Timestamp = remote.Timestamp
			programs = append(programs, program)
		}
		if err != nil {
			return programs, err
		}
		s.notify(remote.Name, i+1, total, EventProgramDownloaded)
	}
	return programs, nil
}

// UploadProgram writes the program to the controller: select by name,
// clear the stored program, then send each content line verbatim with a
// fixed pacing delay and one progress notification per line. On
// cancellation the upload stops between lines; what was sent stays on
// the device.
func (s *Service) UploadProgram(ctx context.Context, program *Program) error {
	if !s.manipulator.Connected() {
		return nil
	}

	if err := s.manipulator.Number(program.Name); err != nil {
		return err
	}
	if !s.pause(ctx, s.SelectSettle) {
		return nil
	}
	if err := s.manipulator.New(); err != nil {
		return err
	}
	if !s.pause(ctx, s.SelectSettle) {
		return nil
	}

	lines := program.Lines()
	total := len(lines)
	for i, line := range lines {
		if !s.pause(ctx, s.LineDelay) {
			return nil
		}
		if err := s.manipulator.SendCustom(line); err != nil {
			return err
		}
		s.notify(program.Name, i+1, total, EventLineUploaded)
	}
	s.notify(program.Name, total, total, EventProgramUploaded)
	return nil
}

// DeleteProgram removes the named program by selecting it and clearing
// the stored contents. It reports success rather than raising.
func (s *Service) DeleteProgram(ctx context.Context, name string) bool {
	if !s.manipulator.Connected() {
		return false
	}
	if err := s.manipulator.Number(name); err != nil {
		s.log.WithError(err).WithField("program", name).Warn("delete failed")
		return false
	}
	if !s.pause(ctx, s.SelectSettle) {
		return false
	}
	if err := s.manipulator.New(); err != nil {
		s.log.WithError(err).WithField("program", name).Warn("delete failed")
		return false
	}
	return true
}

// RunProgram selects the named program and starts it, or resumes the
// already-selected program when the name is empty. Once selected, the
// bare run command suffices. Faults are logged and absorbed; a closed
// link is a silent no-op. The method backs UI affordances that must
// never take down the session.
func (s *Service) RunProgram(ctx context.Context, name string) {
	if !s.manipulator.Connected() {
		return
	}
	if name != "" {
		if err := s.manipulator.Number(name); err != nil {
			s.log.WithError(err).WithField("program", name).Warn("run failed")
			return
		}
		if !s.pause(ctx, s.SelectSettle) {
			return
		}
	}
	if err := s.manipulator.Run(); err != nil {
		s.log.WithError(err).WithField("program", name).Warn("run failed")
	}
}

// StopProgram halts motion, waits out the settle delay and resets the
// program state. Faults are logged and absorbed; a closed link is a
// silent no-op.
func (s *Service) StopProgram(ctx context.Context) {
	if !s.manipulator.Connected() {
		return
	}
	if err := s.manipulator.Halt(); err != nil {
		s.log.WithError(err).Warn("stop failed")
		return
	}
	if !s.pause(ctx, s.StopSettle) {
		return
	}
	if err := s.manipulator.Reset(0); err != nil {
		s.log.WithError(err).Warn("stop failed")
	}
}
