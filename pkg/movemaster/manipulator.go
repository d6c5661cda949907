// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Manipulator is the typed command API over one controller link. Movement,
// positioning and configuration instructions are fire-and-forget writes;
// query-class instructions run through the session so the write and the
// reply read stay paired.
type Manipulator struct {
	session *Session
	log     *logrus.Entry
}

// NewManipulator creates a manipulator over a physical serial link.
func NewManipulator(settings *Settings) *Manipulator {
	return newManipulator(NewTransport(settings))
}

// NewManipulatorWithTransport creates a manipulator over an existing
// transport (remote bridge, test double).
func NewManipulatorWithTransport(transport *Transport) *Manipulator {
	return newManipulator(transport)
}

func newManipulator(transport *Transport) *Manipulator {
	log := logrus.WithField("component", "manipulator")
	transport.SetLogger(log)
	return &Manipulator{
		session: NewSession(transport),
		log:     log,
	}
}

// Transport exposes the underlying link for lifecycle and subscriptions.
func (m *Manipulator) Transport() *Transport {
	return m.session.Transport()
}

// Connect opens the named port.
func (m *Manipulator) Connect(portName string) error {
	return m.Transport().Open(portName)
}

// Disconnect closes the link.
func (m *Manipulator) Disconnect() error {
	return m.Transport().Close()
}

// Connected reports whether the link is open.
func (m *Manipulator) Connected() bool {
	return m.Transport().Opened()
}

// SendCustom transmits a pre-formed expression verbatim.
func (m *Manipulator) SendCustom(expression string) error {
	return m.session.Send(expression)
}

// query runs one query-class instruction and returns its raw reply frame.
func (m *Manipulator) query(ctx context.Context, command string) (string, error) {
	return m.session.Query(ctx, command)
}

// ErrorRead (ER) reads the current error status and returns the numeric
// alarm code. An empty or non-numeric reply reads as code 0.
func (m *Manipulator) ErrorRead(ctx context.Context) (int, error) {
	frame, err := m.query(ctx, ErrorReadCommand())
	if err != nil {
		return 0, err
	}
	code, err := strconv.Atoi(TrimFrame(frame))
	if err != nil {
		return 0, nil
	}
	return code, nil
}

// Where (WH) reads the current position and hand state. A malformed
// reply yields no position; the parse fault is logged, not raised.
func (m *Manipulator) Where(ctx context.Context) (*Position, error) {
	frame, err := m.query(ctx, WhereCommand())
	if err != nil {
		return nil, err
	}
	position, err := ParseWhereResponse(frame)
	if err != nil {
		m.Transport().Stats().CountParseSkip()
		m.log.WithError(err).Debug("could not create position from WH response")
		return nil, err
	}
	return position, nil
}

// StepRead (STR) reads the contents of the step number and returns the
// raw reply frame. A bare carriage-return frame marks end of program.
func (m *Manipulator) StepRead(ctx context.Context, stepNumber uint) (string, error) {
	return m.query(ctx, StepReadCommand(stepNumber))
}

// QueryDirectory issues one directory-listing page and returns the raw
// reply frame. Page 1 uses the wildcard form, later pages the numbered
// form.
func (m *Manipulator) QueryDirectory(ctx context.Context, page int) (string, error) {
	if page == 1 {
		return m.query(ctx, `EXE0, "Fd<*"`)
	}
	return m.query(ctx, `EXE0, "Fd`+strconv.Itoa(page)+`"`)
}

// Fire-and-forget instructions. Each encodes and transmits; the returned
// error reports a transport fault only, never a device response.

// And (AN) ANDs the value with the internal register.
func (m *Manipulator) And(operationData float64) error {
	return m.session.Send(AndCommand(operationData))
}

// CounterLoad (CL) sets the internal register value in the counter.
func (m *Manipulator) CounterLoad(counterNumber float64) error {
	return m.session.Send(CounterLoadCommand(counterNumber))
}

// CounterLoadString (CL $) addresses a character string register.
func (m *Manipulator) CounterLoadString(stringNumber uint) error {
	return m.session.Send(CounterLoadStringCommand(stringNumber))
}

// CompareCounter (CP) sets the counter's value in the internal register.
func (m *Manipulator) CompareCounter(counterNumber float64) error {
	return m.session.Send(CompareCounterCommand(counterNumber))
}

// CompareCounterString (CP $) addresses a character string register.
func (m *Manipulator) CompareCounterString(stringNumber uint) error {
	return m.session.Send(CompareCounterStringCommand(stringNumber))
}

// CounterRead (CR) reads out the counter and returns the raw reply
// frame.
func (m *Manipulator) CounterRead(ctx context.Context, counterNumber float64) (string, error) {
	return m.query(ctx, CounterReadCommand(counterNumber))
}

// CounterReadString (CR $) reads out a character string register and
// returns the raw reply frame.
func (m *Manipulator) CounterReadString(ctx context.Context, stringNumber uint) (string, error) {
	return m.query(ctx, CounterReadStringCommand(stringNumber))
}

// DisableAct (DC) disables an external input interrupt bit.
func (m *Manipulator) DisableAct(inputBitNumber float64) error {
	return m.session.Send(DisableActCommand(inputBitNumber))
}

// DecrementCounter (DC) subtracts 1 from the counter.
func (m *Manipulator) DecrementCounter(counterNumber float64) error {
	return m.session.Send(DecrementCounterCommand(counterNumber))
}

// DrawJoint (DJ) rotates one joint by an angle from the current position.
func (m *Manipulator) DrawJoint(joint Joint, turningAngle float64) error {
	return m.session.Send(DrawJointCommand(joint, turningAngle))
}

// DeleteLine (DL) deletes the program line.
func (m *Manipulator) DeleteLine(lineNumber uint) error {
	return m.session.Send(DeleteLineCommand(lineNumber))
}

// DecrementPosition (DP) moves to the next smaller predefined position.
func (m *Manipulator) DecrementPosition() error {
	return m.session.Send(DecrementPositionCommand())
}

// DataRead (DR) reads the internal register and I/O state and returns
// the raw reply frame.
func (m *Manipulator) DataRead(ctx context.Context) (string, error) {
	return m.query(ctx, DataReadCommand())
}

// DrawStraight (DS) moves the hand tip by XYZ distances, joint
// interpolation.
func (m *Manipulator) DrawStraight(dx, dy, dz float64) error {
	return m.session.Send(DrawStraightCommand(dx, dy, dz))
}

// Draw (DW) moves the hand tip by XYZ distances.
func (m *Manipulator) Draw(dx, dy, dz float64) error {
	return m.session.Send(DrawCommand(dx, dy, dz))
}

// EnableAct (EA) enables interrupt motion on an external input bit.
func (m *Manipulator) EnableAct(sign Sign, inputBitNumber, lineNumber float64) error {
	return m.session.Send(EnableActCommand(sign, inputBitNumber, lineNumber))
}

// End (ED) ends the program.
func (m *Manipulator) End() error {
	return m.session.Send(EndCommand())
}

// Equal (EQ) jumps when the internal register equals the value.
func (m *Manipulator) Equal(comparedValue float64, branchLine uint) error {
	return m.session.Send(EqualCommand(comparedValue, branchLine))
}

// GrabClose (GC) closes the grip.
func (m *Manipulator) GrabClose() error {
	return m.session.Send(GrabCloseCommand())
}

// GrabOpen (GO) opens the grip.
func (m *Manipulator) GrabOpen() error {
	return m.session.Send(GrabOpenCommand())
}

// GripPressure (GP) defines the gripping force.
func (m *Manipulator) GripPressure(starting, retained, retentionTime float64) error {
	return m.session.Send(GripPressureCommand(starting, retained, retentionTime))
}

// GoSub (GS) carries out the subroutine at the line.
func (m *Manipulator) GoSub(lineNumber uint) error {
	return m.session.Send(GoSubCommand(lineNumber))
}

// GoTo (GT) jumps to the line unconditionally.
func (m *Manipulator) GoTo(lineNumber uint) error {
	return m.session.Send(GoToCommand(lineNumber))
}

// Here (HE) defines the current coordinates as the position.
func (m *Manipulator) Here(positionNumber uint) error {
	return m.session.Send(HereCommand(positionNumber))
}

// Halt (HLT) interrupts motion and the program.
func (m *Manipulator) Halt() error {
	return m.session.Send(HaltCommand())
}

// Home (HO) defines the current location and attitude as origin.
func (m *Manipulator) Home(method OriginMethod) error {
	return m.session.Send(HomeCommand(method))
}

// IncrementPosition (IP) moves to the next greater predefined position.
func (m *Manipulator) IncrementPosition() error {
	return m.session.Send(IncrementPositionCommand())
}

// IncrementCounter (IC) adds 1 to the counter.
func (m *Manipulator) IncrementCounter(counterNumber float64) error {
	return m.session.Send(IncrementCounterCommand(counterNumber))
}

// InputDirect (ID) fetches external input and hand check data.
func (m *Manipulator) InputDirect(inputBitNumber uint) error {
	return m.session.Send(InputDirectCommand(inputBitNumber))
}

// Input (NP) receives a counter, position or string value.
func (m *Manipulator) Input(channelNumber, value uint, content RegisterContent) error {
	return m.session.Send(InputCommand(channelNumber, value, content))
}

// JointRollChange (JRC) adds +/-360 degrees to the R-axis position.
func (m *Manipulator) JointRollChange(number int) error {
	return m.session.Send(JointRollChangeCommand(number))
}

// IfLarger (LG) jumps when the internal register is larger.
func (m *Manipulator) IfLarger(comparedValue string, branchLine uint) error {
	return m.session.Send(IfLargerCommand(comparedValue, branchLine))
}

// LineRead (LR) reads the current stopping line number and returns the
// raw reply frame.
func (m *Manipulator) LineRead(ctx context.Context) (string, error) {
	return m.query(ctx, LineReadCommand())
}

// LineReadAt (LR n) reads the program of the line and returns the raw
// reply frame.
func (m *Manipulator) LineReadAt(ctx context.Context, lineNumber uint) (string, error) {
	return m.query(ctx, LineReadAtCommand(lineNumber))
}

// MoveContinuous (MC) moves through intermediate points between two
// positions.
func (m *Manipulator) MoveContinuous(positionA, positionB uint) error {
	return m.session.Send(MoveContinuousCommand(positionA, positionB))
}

// MoveJoint (MJ) turns each joint by relative angles.
func (m *Manipulator) MoveJoint(waist, shoulder, elbow, pitch, roll float64) error {
	return m.session.Send(MoveJointCommand(waist, shoulder, elbow, pitch, roll))
}

// Move (MO) moves the hand tip to the position.
func (m *Manipulator) Move(positionNumber uint) error {
	return m.session.Send(MoveCommand(positionNumber))
}

// MoveGrip (MO n,g) moves to the position with a hand state.
func (m *Manipulator) MoveGrip(positionNumber uint, grip Grip) error {
	return m.session.Send(MoveGripCommand(positionNumber, grip))
}

// MovePosition (MP) moves the hand tip to explicit coordinates.
func (m *Manipulator) MovePosition(x, y, z, a, b float64) error {
	return m.session.Send(MovePositionCommand(x, y, z, a, b))
}

// MovePlayback (MPB) moves with interpolation, speed, timer and I/O
// settings.
func (m *Manipulator) MovePlayback(speed, timer, outputOn, outputOff, inputOn, inputOff, interpolation, x, y, z, a, b float64) error {
	return m.session.Send(MovePlaybackCommand(speed, timer, outputOn, outputOff, inputOn, inputOff, interpolation, x, y, z, a, b))
}

// MovePlaybackContinuous (MPC) moves to coordinates with the given
// interpolation mode.
func (m *Manipulator) MovePlaybackContinuous(interpolation Interpolation, x, y, z, a, b float64) error {
	return m.session.Send(MovePlaybackContinuousCommand(interpolation, x, y, z, a, b))
}

// MoveR (MR) moves through positions in circular interpolation.
func (m *Manipulator) MoveR(positionA, positionB, positionC uint) error {
	return m.session.Send(MoveRCommand(positionA, positionB, positionC))
}

// MoveRA (MRA) moves to the position in circular interpolation.
func (m *Manipulator) MoveRA(positionNumber uint) error {
	return m.session.Send(MoveRACommand(positionNumber))
}

// MoveRAGrip (MRA n,g) adds a hand state.
func (m *Manipulator) MoveRAGrip(positionNumber uint, grip Grip) error {
	return m.session.Send(MoveRAGripCommand(positionNumber, grip))
}

// MoveStraight (MS) moves the hand tip to the position, linear
// interpolation.
func (m *Manipulator) MoveStraight(positionNumber uint) error {
	return m.session.Send(MoveStraightCommand(positionNumber))
}

// MoveTool (MT) moves to a position offset in the tool direction.
func (m *Manipulator) MoveTool(positionNumber uint, travelDistance float64) error {
	return m.session.Send(MoveToolCommand(positionNumber, travelDistance))
}

// MoveToolGrip (MT n,d,g) adds a hand state.
func (m *Manipulator) MoveToolGrip(positionNumber uint, travelDistance float64, grip Grip) error {
	return m.session.Send(MoveToolGripCommand(positionNumber, travelDistance, grip))
}

// MoveToolStraight (MTS) moves to a tool-direction offset, linear
// interpolation.
func (m *Manipulator) MoveToolStraight(positionNumber uint, travelDistance float64) error {
	return m.session.Send(MoveToolStraightCommand(positionNumber, travelDistance))
}

// MoveToolStraightGrip (MTS n,d,g) adds a hand state.
func (m *Manipulator) MoveToolStraightGrip(positionNumber uint, travelDistance float64, grip Grip) error {
	return m.session.Send(MoveToolStraightGripCommand(positionNumber, travelDistance, grip))
}

// Number (N) selects the named program.
func (m *Manipulator) Number(programName string) error {
	return m.session.Send(NumberCommand(programName))
}

// IfNotEqual (NE) jumps when the internal register differs.
func (m *Manipulator) IfNotEqual(comparedValue string, branchLine uint) error {
	return m.session.Send(IfNotEqualCommand(comparedValue, branchLine))
}

// Nest (NT) moves to the user-defined origin.
func (m *Manipulator) Nest() error {
	return m.session.Send(NestCommand())
}

// New (NW) deletes the selected program and position data.
func (m *Manipulator) New() error {
	return m.session.Send(NewCommand())
}

// Next (NX) closes the loop range opened by RC.
func (m *Manipulator) Next() error {
	return m.session.Send(NextCommand())
}

// OutputBit (OB) sets an external output bit.
func (m *Manipulator) OutputBit(sign Sign, bitNumber uint) error {
	return m.session.Send(OutputBitCommand(sign, bitNumber))
}

// OutputCounter (OC) outputs a counter value through the output port.
func (m *Manipulator) OutputCounter(counterNumber, outputBit, bitWidth uint) error {
	return m.session.Send(OutputCounterCommand(counterNumber, outputBit, bitWidth))
}

// OutputDirect (OD) outputs data through the output port.
func (m *Manipulator) OutputDirect(outputData float64, outputBit, bitWidth uint) error {
	return m.session.Send(OutputDirectCommand(outputData, outputBit, bitWidth))
}

// Origin (OG) moves to the user-defined origin.
func (m *Manipulator) Origin() error {
	return m.session.Send(OriginCommand())
}

// OpenChannel (OPN) opens a communication channel.
func (m *Manipulator) OpenChannel(channelNumber, deviceNumber uint) error {
	return m.session.Send(OpenChannelCommand(channelNumber, deviceNumber))
}

// Or (OR) ORs the data with the internal register.
func (m *Manipulator) Or(operationData float64) error {
	return m.session.Send(OrCommand(operationData))
}

// Override (OVR) sets the program override percentage.
func (m *Manipulator) Override(override float64) error {
	return m.session.Send(OverrideCommand(override))
}

// PalletAssign (PA) defines the grid points of a pallet.
func (m *Manipulator) PalletAssign(palletNumber, columnPoints, rowPoints uint) error {
	return m.session.Send(PalletAssignCommand(palletNumber, columnPoints, rowPoints))
}

// PositionClear (PC) clears the position data.
func (m *Manipulator) PositionClear(positionNumber uint) error {
	return m.session.Send(PositionClearCommand(positionNumber))
}

// PositionDefine (PD) defines the coordinates of the position.
func (m *Manipulator) PositionDefine(positionNumber uint, x, y, z, a, b float64) error {
	return m.session.Send(PositionDefineCommand(positionNumber, x, y, z, a, b))
}

// PositionLoad (PL) replaces position A by position B.
func (m *Manipulator) PositionLoad(positionA, positionB uint) error {
	return m.session.Send(PositionLoadCommand(positionA, positionB))
}

// ParameterRead (PMR) reads a parameter and returns the raw reply
// frame.
func (m *Manipulator) ParameterRead(ctx context.Context, parameterName string) (string, error) {
	return m.query(ctx, ParameterReadCommand(parameterName))
}

// ParameterWrite (PMW) renews a parameter.
func (m *Manipulator) ParameterWrite(parameterName, contents string) error {
	return m.session.Send(ParameterWriteCommand(parameterName, contents))
}

// PositionRead (PR) reads the coordinates of the position and returns
// the raw reply frame.
func (m *Manipulator) PositionRead(ctx context.Context, positionNumber uint) (string, error) {
	return m.query(ctx, PositionReadCommand(positionNumber))
}

// Pallet (PT) calculates a pallet grid point.
func (m *Manipulator) Pallet(palletNumber uint) error {
	return m.session.Send(PalletCommand(palletNumber))
}

// PulseWait (PW) waits for servo in-position.
func (m *Manipulator) PulseWait(positioningPulse float64) error {
	return m.session.Send(PulseWaitCommand(positioningPulse))
}

// PositionExchange (PW a, b) exchanges the coordinates of two positions.
func (m *Manipulator) PositionExchange(positionA, positionB uint) error {
	return m.session.Send(PositionExchangeCommand(positionA, positionB))
}

// QuestionNumber (QN) reads the program name or information and returns
// the raw reply frame.
func (m *Manipulator) QuestionNumber(ctx context.Context, programName string) (string, error) {
	return m.query(ctx, QuestionNumberCommand(programName))
}

// RepeatCycle (RC) repeats the NX loop.
func (m *Manipulator) RepeatCycle(cycles uint) error {
	return m.session.Send(RepeatCycleCommand(cycles))
}

// Run (RN) resumes or starts the selected program.
func (m *Manipulator) Run() error {
	return m.session.Send(RunCommand())
}

// RunProgram (RN ,,name) runs the named program from the top.
func (m *Manipulator) RunProgram(programName string) error {
	return m.session.Send(RunProgramCommand(programName))
}

// RunRange (RN a, b, name) runs a line range of the named program.
func (m *Manipulator) RunRange(startLine, endLine uint, programName string) error {
	return m.session.Send(RunRangeCommand(startLine, endLine, programName))
}

// Reset (RS) resets the program and error condition.
func (m *Manipulator) Reset(resetNumber uint) error {
	return m.session.Send(ResetCommand(resetNumber))
}

// Return (RT) completes a subroutine.
func (m *Manipulator) Return(lineNumber uint) error {
	return m.session.Send(ReturnCommand(lineNumber))
}

// SetCounter (SC) sets a value in the counter or character string.
func (m *Manipulator) SetCounter(counterNumber, value string) error {
	return m.session.Send(SetCounterCommand(counterNumber, value))
}

// SpeedDefine (SD) defines the moving velocity.
func (m *Manipulator) SpeedDefine(movingSpeed float64) error {
	return m.session.Send(SpeedDefineCommand(movingSpeed))
}

// Shift (SF) adds position B's coordinates to position A.
func (m *Manipulator) Shift(positionA, positionB uint) error {
	return m.session.Send(ShiftCommand(positionA, positionB))
}

// IfSmaller (SM) jumps when the internal register is smaller.
func (m *Manipulator) IfSmaller(comparedValue string, branchLine uint) error {
	return m.session.Send(IfSmallerCommand(comparedValue, branchLine))
}

// ServoOn (SVO) turns the servo on.
func (m *Manipulator) ServoOn() error {
	return m.session.Send(ServoOnCommand())
}

// Speed (SP) sets the operating speed level.
func (m *Manipulator) Speed(speedLevel uint) error {
	return m.session.Send(SpeedCommand(speedLevel))
}

// TestBit (TB) jumps according to an internal register bit.
func (m *Manipulator) TestBit(sign Sign, bitNumber, branchLine uint) error {
	return m.session.Send(TestBitCommand(sign, bitNumber, branchLine))
}

// TestBitDirect (TB) jumps according to an external input bit.
func (m *Manipulator) TestBitDirect(sign Sign, inputBitNumber, branchLine uint) error {
	return m.session.Send(TestBitDirectCommand(sign, inputBitNumber, branchLine))
}

// Timer (TI) halts motion for the given time.
func (m *Manipulator) Timer(timerCounter float64) error {
	return m.session.Send(TimerCommand(timerCounter))
}

// Tool (TL) establishes the tool length.
func (m *Manipulator) Tool(toolLength float64) error {
	return m.session.Send(ToolCommand(toolLength))
}

// VersionRead (VR) reads the system ROM software version and returns
// the raw reply frame.
func (m *Manipulator) VersionRead(ctx context.Context) (string, error) {
	return m.query(ctx, VersionReadCommand())
}

// WhatTool (WT) reads the established tool length and returns the raw
// reply frame.
func (m *Manipulator) WhatTool(ctx context.Context) (string, error) {
	return m.query(ctx, WhatToolCommand())
}

// ExclusiveOr (XO) XORs the data with the internal register.
func (m *Manipulator) ExclusiveOr(operationData uint) error {
	return m.session.Send(ExclusiveOrCommand(operationData))
}

// Comment (') carries a program comment.
func (m *Manipulator) Comment(comment string) error {
	return m.session.Send(CommentCommand(comment))
}
