// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestService wires a connected manipulator and service to a scripted
// device with all pacing delays shortened for the test run.
func newTestService(t *testing.T, respond func(cmd string) []string) (*Service, *scriptedConn) {
	t.Helper()
	conn := newScriptedConn(respond)
	tr := NewTransportWithDialer(DefaultSettings(), func(string, *Settings) (io.ReadWriteCloser, error) {
		return conn, nil
	})
	tr.OpenSettle = 0
	tr.WaitTimeout = 100 * time.Millisecond
	tr.Heartbeat = 5 * time.Millisecond
	t.Cleanup(tr.Shutdown)

	m := NewManipulatorWithTransport(tr)
	require.NoError(t, m.Connect("TEST"))

	svc := NewService(m)
	svc.SelectSettle = time.Millisecond
	svc.LineDelay = time.Millisecond
	svc.StopSettle = time.Millisecond
	return svc, conn
}

// progressRecorder collects progress notifications thread-safely.
type progressRecorder struct {
	mu     sync.Mutex
	events []ProgressEvent
	steps  []int
}

func (r *progressRecorder) record(_ string, step, _ int, event ProgressEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.steps = append(r.steps, step)
	r.mu.Unlock()
}

func TestReadProgramInfo(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		switch cmd {
		case `EXE0, "Fd<*"`:
			return []string{"QoK12345.RE2;512;010122083000\r"}
		case `EXE0, "Fd2"`:
			return []string{"QoKPICK.RE2;256;020223101500\r"}
		case `EXE0, "Fd3"`:
			return []string{"QoK\r"}
		}
		return nil
	})

	programs := svc.ReadProgramInfo(context.Background())
	require.Len(t, programs, 2)
	require.Equal(t, "12345", programs[0].Name)
	require.Equal(t, 512, programs[0].Size)
	require.Equal(t, "PICK", programs[1].Name)
}

func TestReadProgramInfoSkipsUnparsableEntries(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		switch cmd {
		case `EXE0, "Fd<*"`:
			return []string{"QoK12345.RE2;512;010122083000\r"}
		case `EXE0, "Fd2"`:
			return []string{"garbage\r"}
		case `EXE0, "Fd3"`:
			return []string{"QoK\r"}
		}
		return nil
	})

	programs := svc.ReadProgramInfo(context.Background())
	require.Len(t, programs, 1)
	require.EqualValues(t, 1, svc.stats().Snapshot().ParseSkips)
}

func TestReadProgramInfoSentinelVariants(t *testing.T) {
	for _, sentinel := range []string{"QoK\r", "QoK  \r"} {
		svc, _ := newTestService(t, func(cmd string) []string {
			return []string{sentinel}
		})
		programs := svc.ReadProgramInfo(context.Background())
		require.Empty(t, programs, "sentinel %q must close the listing", sentinel)
	}
}

func TestReadProgramInfoWhenDisconnected(t *testing.T) {
	svc, _ := newTestService(t, nil)
	require.NoError(t, svc.manipulator.Disconnect())
	require.Nil(t, svc.ReadProgramInfo(context.Background()))
}

func TestDownloadProgram(t *testing.T) {
	svc, conn := newTestService(t, func(cmd string) []string {
		switch cmd {
		case "ER":
			return []string{"0\r"}
		case "STR 1":
			return []string{"1 MO 1\r"}
		case "STR 2":
			return []string{"6 GC\r"}
		case "STR 3":
			return []string{"\r"}
		}
		return nil
	})

	program, err := svc.DownloadProgram(context.Background(), "PICK")
	require.NoError(t, err)
	require.NotNil(t, program)
	require.Equal(t, "PICK", program.Name)
	require.Equal(t, "1 MO 1\n6 GC", program.Content)
	require.Contains(t, conn.Writes(), `N "PICK"`)
}

func TestDownloadProgramAlarmAborts(t *testing.T) {
	svc, conn := newTestService(t, func(cmd string) []string {
		if cmd == "ER" {
			return []string{"105\r"}
		}
		return nil
	})

	_, err := svc.DownloadProgram(context.Background(), "PICK")
	var alarm *AlarmError
	require.ErrorAs(t, err, &alarm)
	require.Equal(t, 105, alarm.Code)
	require.NotContains(t, conn.Writes(), "STR 1")
	require.EqualValues(t, 1, svc.stats().Snapshot().Alarms)
}

func TestDownloadProgramCancelReturnsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, _ := newTestService(t, func(cmd string) []string {
		switch cmd {
		case "ER":
			return []string{"0\r"}
		case "STR 1":
			return []string{"1 MO 1\r"}
		case "STR 2":
			// Cancel instead of answering; the loop must stop with
			// exactly the lines read so far.
			cancel()
		}
		return nil
	})

	program, err := svc.DownloadProgram(ctx, "PICK")
	require.NoError(t, err)
	require.NotNil(t, program)
	require.Equal(t, "1 MO 1", program.Content)
}

func TestDownloadProgramDeadLinkReturnsPartial(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		switch cmd {
		case "ER":
			return []string{"0\r"}
		case "STR 1":
			return []string{"1 MO 1\r"}
		}
		return nil
	})

	program, err := svc.DownloadProgram(context.Background(), "PICK")
	require.ErrorIs(t, err, ErrNoReply)
	require.NotNil(t, program)
	require.Equal(t, "1 MO 1", program.Content)
}

func TestDownloadPrograms(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		switch cmd {
		case "ER":
			return []string{"0\r"}
		case "STR 1":
			return []string{"1 ED\r"}
		case "STR 2":
			return []string{"\r"}
		}
		return nil
	})

	recorder := &progressRecorder{}
	svc.OnProgress(recorder.record)

	remotes := []*RemoteProgram{
		{Name: "A", Size: 100, Timestamp: "01 January 2022 08:30:00"},
		{Name: "B", Size: 200, Timestamp: "02 January 2022 08:30:00"},
	}
	programs, err := svc.DownloadPrograms(context.Background(), remotes)
	require.NoError(t, err)
	require.Len(t, programs, 2)
	require.Equal(t, 100, programs[0].Size)
	require.Equal(t, "02 January 2022 08:30:00", programs[1].Timestamp)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Equal(t, []ProgressEvent{EventProgramDownloaded, EventProgramDownloaded}, recorder.events)
	require.Equal(t, []int{1, 2}, recorder.steps)
}

func TestUploadProgram(t *testing.T) {
	svc, conn := newTestService(t, nil)

	recorder := &progressRecorder{}
	svc.OnProgress(recorder.record)

	program := NewProgram("PICK")
	program.Content = "1 MO 1\r\n6 GC\r\n11 ED"
	require.NoError(t, svc.UploadProgram(context.Background(), program))

	writes := conn.Writes()
	require.Equal(t, []string{`N "PICK"`, "NW", "1 MO 1", "6 GC", "11 ED"}, writes)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Equal(t, []ProgressEvent{
		EventLineUploaded, EventLineUploaded, EventLineUploaded, EventProgramUploaded,
	}, recorder.events)
}

func TestUploadProgramCancelStopsBetweenLines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, conn := newTestService(t, nil)
	svc.OnProgress(func(_ string, step, _ int, event ProgressEvent) {
		if event == EventLineUploaded && step == 1 {
			cancel()
		}
	})

	program := NewProgram("PICK")
	program.Content = "1 MO 1\r\n6 GC\r\n11 ED"
	require.NoError(t, svc.UploadProgram(ctx, program))

	writes := conn.Writes()
	require.Equal(t, []string{`N "PICK"`, "NW", "1 MO 1"}, writes)
}

func TestDeleteProgram(t *testing.T) {
	svc, conn := newTestService(t, nil)
	require.True(t, svc.DeleteProgram(context.Background(), "PICK"))
	require.Equal(t, []string{`N "PICK"`, "NW"}, conn.Writes())
}

func TestDeleteProgramWhenDisconnected(t *testing.T) {
	svc, conn := newTestService(t, nil)
	require.NoError(t, svc.manipulator.Disconnect())
	require.False(t, svc.DeleteProgram(context.Background(), "PICK"))
	require.Empty(t, conn.Writes())
}

func TestRunProgramSelectsThenRuns(t *testing.T) {
	svc, conn := newTestService(t, nil)
	svc.RunProgram(context.Background(), "PICK")
	require.Equal(t, []string{`N "PICK"`, "RN"}, conn.Writes())
}

func TestRunProgramResume(t *testing.T) {
	svc, conn := newTestService(t, nil)
	svc.RunProgram(context.Background(), "")
	require.Equal(t, []string{"RN"}, conn.Writes())
}

func TestStopProgram(t *testing.T) {
	svc, conn := newTestService(t, nil)
	svc.StopProgram(context.Background())
	require.Equal(t, []string{"HLT", "RS 0"}, conn.Writes())
}

func TestRunAndStopWhenDisconnectedAreSilent(t *testing.T) {
	svc, conn := newTestService(t, nil)
	require.NoError(t, svc.manipulator.Disconnect())

	svc.RunProgram(context.Background(), "PICK")
	svc.StopProgram(context.Background())
	require.Empty(t, conn.Writes())
}

func TestDownloadProgramWhenDisconnected(t *testing.T) {
	svc, _ := newTestService(t, nil)
	require.NoError(t, svc.manipulator.Disconnect())

	program, err := svc.DownloadProgram(context.Background(), "PICK")
	require.NoError(t, err)
	require.Nil(t, program)
}

func TestManipulatorErrorRead(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		if cmd == "ER" {
			return []string{"105\r"}
		}
		return nil
	})
	code, err := svc.manipulator.ErrorRead(context.Background())
	require.NoError(t, err)
	require.Equal(t, 105, code)
}

func TestManipulatorErrorReadNonNumericIsZero(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		if cmd == "ER" {
			return []string{"OK\r"}
		}
		return nil
	})
	code, err := svc.manipulator.ErrorRead(context.Background())
	require.NoError(t, err)
	require.Zero(t, code)
}

// Read-class instructions must consume their own reply before the next
// query runs, or the ID-less stream mis-pairs request and response.
func TestReadInstructionsConsumeTheirReplies(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		switch cmd {
		case "VR":
			return []string{"VER1.0\r"}
		case "ER":
			return []string{"105\r"}
		}
		return nil
	})

	version, err := svc.manipulator.VersionRead(context.Background())
	require.NoError(t, err)
	require.Equal(t, "VER1.0\r", version)

	code, err := svc.manipulator.ErrorRead(context.Background())
	require.NoError(t, err)
	require.Equal(t, 105, code)
}

func TestManipulatorLineReadAt(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		if cmd == "LR 5" {
			return []string{"5 MO 2\r"}
		}
		return nil
	})
	frame, err := svc.manipulator.LineReadAt(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "5 MO 2\r", frame)
}

func TestManipulatorCounterRead(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		if cmd == "CR 2" {
			return []string{"15\r"}
		}
		return nil
	})
	frame, err := svc.manipulator.CounterRead(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "15", TrimFrame(frame))
}

func TestManipulatorWhere(t *testing.T) {
	svc, _ := newTestService(t, func(cmd string) []string {
		if cmd == "WH" {
			return []string{"+12.500,+34.000,+156.250,+0.000,-90.000,+0.000,+0.000,R,A,O\r"}
		}
		return nil
	})
	p, err := svc.manipulator.Where(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12.5, p.X)
	require.Equal(t, GripOpen, p.Grip)
}

func TestProgressEventNames(t *testing.T) {
	require.Equal(t, "Program Downloaded", EventProgramDownloaded.String())
	require.Equal(t, "Program Uploaded", EventProgramUploaded.String())
	require.Equal(t, "Line Uploaded", EventLineUploaded.String())
	require.Equal(t, "Unknown Event", ProgressEvent(99).String())
}

func TestAlarmErrorMessage(t *testing.T) {
	err := error(&AlarmError{Code: 7})
	require.Equal(t, "movemaster: action interrupted with error code 7", err.Error())

	var alarm *AlarmError
	require.True(t, errors.As(err, &alarm))
}
