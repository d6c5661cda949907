// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"strconv"
)

// Command builder functions render each manipulator instruction into its
// exact wire string: a two-to-three-letter mnemonic plus comma-separated
// parameters. Builders are pure; they perform no range validation (the
// documented ranges are the controller's contract, not ours) and numeric
// formatting never depends on the machine locale.

// fnum formats a float the way the controller expects: shortest decimal
// form, '.' as the separator, no exponent.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AndCommand (AN) ANDs the value with the internal register.
func AndCommand(operationData float64) string {
	return fmt.Sprintf("AN %s", fnum(operationData))
}

// CounterLoadCommand (CL) sets the internal register value in the
// specified counter. Counter numbers run 1-99.
func CounterLoadCommand(counterNumber float64) string {
	return fmt.Sprintf("CL %s", fnum(counterNumber))
}

// CounterLoadStringCommand (CL $) addresses a character string register.
func CounterLoadStringCommand(stringNumber uint) string {
	return fmt.Sprintf("CL $%d", stringNumber)
}

// CompareCounterCommand (CP) sets the specified counter's value in the
// internal register.
func CompareCounterCommand(counterNumber float64) string {
	return fmt.Sprintf("CP %s", fnum(counterNumber))
}

// CompareCounterStringCommand (CP $) addresses a character string register.
func CompareCounterStringCommand(stringNumber uint) string {
	return fmt.Sprintf("CP $%d", stringNumber)
}

// CounterReadCommand (CR) reads out the specified counter.
func CounterReadCommand(counterNumber float64) string {
	return fmt.Sprintf("CR %s", fnum(counterNumber))
}

// CounterReadStringCommand (CR $) reads out a character string register.
func CounterReadStringCommand(stringNumber uint) string {
	return fmt.Sprintf("CR $%d", stringNumber)
}

// DisableActCommand (DC) disables an interrupt of the specified bit of the
// external input port.
func DisableActCommand(inputBitNumber float64) string {
	return fmt.Sprintf("DC %s", fnum(inputBitNumber))
}

// DecrementCounterCommand (DC) subtracts 1 from the specified counter.
func DecrementCounterCommand(counterNumber float64) string {
	return fmt.Sprintf("DC %s", fnum(counterNumber))
}

// DrawJointCommand (DJ) rotates one joint by an angle from the current
// position, joint interpolation.
func DrawJointCommand(joint Joint, turningAngle float64) string {
	return fmt.Sprintf("DJ %d, %s", int(joint), fnum(turningAngle))
}

// DeleteLineCommand (DL) deletes the specified program line.
func DeleteLineCommand(lineNumber uint) string {
	return fmt.Sprintf("DL %d", lineNumber)
}

// DecrementPositionCommand (DP) moves to the predefined position with the
// next smaller position number.
func DecrementPositionCommand() string { return "DP" }

// DataReadCommand (DR) reads the internal register, hand check state and
// general output state.
func DataReadCommand() string { return "DR" }

// DrawStraightCommand (DS) moves the hand tip by the given XYZ distances,
// joint interpolation.
func DrawStraightCommand(dx, dy, dz float64) string {
	return fmt.Sprintf("DS %s, %s, %s", fnum(dx), fnum(dy), fnum(dz))
}

// DrawCommand (DW) moves the hand tip by the given XYZ distances.
func DrawCommand(dx, dy, dz float64) string {
	return fmt.Sprintf("DW %s,%s,%s", fnum(dx), fnum(dy), fnum(dz))
}

// EnableActCommand (EA) enables interrupt motion on an external input bit.
func EnableActCommand(sign Sign, inputBitNumber, lineNumber float64) string {
	return fmt.Sprintf("EA %s,%s,%s", sign, fnum(inputBitNumber), fnum(lineNumber))
}

// EndCommand (ED) ends the program.
func EndCommand() string { return "ED" }

// EqualCommand (EQ) jumps to the line when the internal register equals
// the compared value.
func EqualCommand(comparedValue float64, branchLine uint) string {
	return fmt.Sprintf("EQ %s,%d", fnum(comparedValue), branchLine)
}

// ErrorReadCommand (ER) reads the current error status. Query class.
func ErrorReadCommand() string { return "ER" }

// GrabCloseCommand (GC) closes the grip of the hand.
func GrabCloseCommand() string { return "GC" }

// GrabOpenCommand (GO) opens the grip of the hand.
func GrabOpenCommand() string { return "GO" }

// GripPressureCommand (GP) defines the gripping force of the hand.
func GripPressureCommand(starting, retained, retentionTime float64) string {
	return fmt.Sprintf("GP %s, %s, %s", fnum(starting), fnum(retained), fnum(retentionTime))
}

// GoSubCommand (GS) carries out the subroutine beginning at the line.
func GoSubCommand(lineNumber uint) string {
	return fmt.Sprintf("GS %d", lineNumber)
}

// GoToCommand (GT) jumps to the line unconditionally.
func GoToCommand(lineNumber uint) string {
	return fmt.Sprintf("GT %d", lineNumber)
}

// HereCommand (HE) defines the current coordinates as the position.
// Position 0 registers the user-defined origin.
func HereCommand(positionNumber uint) string {
	return fmt.Sprintf("HE %d", positionNumber)
}

// HaltCommand (HLT) interrupts the robot motion and the program.
func HaltCommand() string { return "HLT" }

// HomeCommand (HO) defines the current location and attitude as origin.
func HomeCommand(method OriginMethod) string {
	return fmt.Sprintf("HO %d", int(method))
}

// IncrementPositionCommand (IP) moves to the predefined position with the
// next greater position number.
func IncrementPositionCommand() string { return "IP" }

// IncrementCounterCommand (IC) adds 1 to the specified counter.
func IncrementCounterCommand(counterNumber float64) string {
	return fmt.Sprintf("IC %s", fnum(counterNumber))
}

// InputDirectCommand (ID) fetches data unconditionally from the external
// input and hand check input.
func InputDirectCommand(inputBitNumber uint) string {
	return fmt.Sprintf("ID %d", inputBitNumber)
}

// InputCommand (NP) receives a counter, position or string value per the
// PRN command.
func InputCommand(channelNumber, value uint, content RegisterContent) string {
	return fmt.Sprintf("NP %d,%d,%d", channelNumber, value, int(content))
}

// JointRollChangeCommand (JRC) adds +/-360 degrees to the R-axis joint
// position for shortcut or endless control.
func JointRollChangeCommand(number int) string {
	return fmt.Sprintf("JRC %d", number)
}

// IfLargerCommand (LG) jumps to the line when the internal register is
// larger than the compared value.
func IfLargerCommand(comparedValue string, branchLine uint) string {
	return fmt.Sprintf("LG %s,%d", comparedValue, branchLine)
}

// LineReadCommand (LR) reads the current stopping line number.
func LineReadCommand() string { return "LR" }

// LineReadAtCommand (LR n) reads the program of the specified line.
func LineReadAtCommand(lineNumber uint) string {
	return fmt.Sprintf("LR %d", lineNumber)
}

// MoveContinuousCommand (MC) moves continuously through the predefined
// intermediate points between two positions.
func MoveContinuousCommand(positionA, positionB uint) string {
	return fmt.Sprintf("MC %d,%d", positionA, positionB)
}

// MoveJointCommand (MJ) turns each joint by the given relative angles.
func MoveJointCommand(waist, shoulder, elbow, pitch, roll float64) string {
	return fmt.Sprintf("MJ %s,%s,%s,%s,%s", fnum(waist), fnum(shoulder), fnum(elbow), fnum(pitch), fnum(roll))
}

// MoveCommand (MO) moves the hand tip to the position, joint
// interpolation. Positions run 1-999.
func MoveCommand(positionNumber uint) string {
	return fmt.Sprintf("MO %d", positionNumber)
}

// MoveGripCommand (MO n,g) moves to the position with a hand state.
func MoveGripCommand(positionNumber uint, grip Grip) string {
	return fmt.Sprintf("MO %d,%s", positionNumber, grip)
}

// MovePositionCommand (MP) moves the hand tip to explicit coordinates.
func MovePositionCommand(x, y, z, a, b float64) string {
	return fmt.Sprintf("MP %s,%s,%s,%s,%s", fnum(x), fnum(y), fnum(z), fnum(a), fnum(b))
}

// MovePlaybackCommand (MPB) moves with interpolation, speed, timer and
// I/O signal settings.
func MovePlaybackCommand(speed, timer, outputOn, outputOff, inputOn, inputOff, interpolation, x, y, z, a, b float64) string {
	return fmt.Sprintf("MPB %s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s",
		fnum(speed), fnum(timer), fnum(outputOn), fnum(outputOff), fnum(inputOn), fnum(inputOff),
		fnum(interpolation), fnum(x), fnum(y), fnum(z), fnum(a), fnum(b))
}

// MovePlaybackContinuousCommand (MPC) moves to the coordinates with the
// given interpolation mode.
func MovePlaybackContinuousCommand(interpolation Interpolation, x, y, z, a, b float64) string {
	return fmt.Sprintf("MPC %d,%s,%s,%s,%s,%s", int(interpolation), fnum(x), fnum(y), fnum(z), fnum(a), fnum(b))
}

// MoveRCommand (MR) moves through predefined positions in circular
// interpolation.
func MoveRCommand(positionA, positionB, positionC uint) string {
	return fmt.Sprintf("MR %d,%d,%d", positionA, positionB, positionC)
}

// MoveRACommand (MRA) moves to the position in circular interpolation.
func MoveRACommand(positionNumber uint) string {
	return fmt.Sprintf("MRA %d", positionNumber)
}

// MoveRAGripCommand (MRA n,g) moves in circular interpolation with a hand
// state.
func MoveRAGripCommand(positionNumber uint, grip Grip) string {
	return fmt.Sprintf("MRA %d,%s", positionNumber, grip)
}

// MoveStraightCommand (MS) moves the hand tip to the position, linear
// interpolation.
func MoveStraightCommand(positionNumber uint) string {
	return fmt.Sprintf("MS %d", positionNumber)
}

// MoveToolCommand (MT) moves to a position offset in the tool direction,
// joint interpolation.
func MoveToolCommand(positionNumber uint, travelDistance float64) string {
	return fmt.Sprintf("MT %d,%s", positionNumber, fnum(travelDistance))
}

// MoveToolGripCommand (MT n,d,g) adds a hand state.
func MoveToolGripCommand(positionNumber uint, travelDistance float64, grip Grip) string {
	return fmt.Sprintf("MT %d,%s,%s", positionNumber, fnum(travelDistance), grip)
}

// MoveToolStraightCommand (MTS) moves to a position offset in the tool
// direction, linear interpolation.
func MoveToolStraightCommand(positionNumber uint, travelDistance float64) string {
	return fmt.Sprintf("MTS %d,%s", positionNumber, fnum(travelDistance))
}

// MoveToolStraightGripCommand (MTS n,d,g) adds a hand state.
func MoveToolStraightGripCommand(positionNumber uint, travelDistance float64, grip Grip) string {
	return fmt.Sprintf("MTS %d,%s,%s", positionNumber, fnum(travelDistance), grip)
}

// NumberCommand (N) selects the named program. Names are at most 8
// characters.
func NumberCommand(programName string) string {
	return fmt.Sprintf("N \"%s\"", programName)
}

// IfNotEqualCommand (NE) jumps to the line when the internal register does
// not equal the compared value.
func IfNotEqualCommand(comparedValue string, branchLine uint) string {
	return fmt.Sprintf("NE %s, %d", comparedValue, branchLine)
}

// NestCommand (NT) moves to the user-defined origin.
func NestCommand() string { return "NT" }

// NewCommand (NW) deletes the selected program and position data.
func NewCommand() string { return "NW" }

// NextCommand (NX) closes the loop range opened by RC.
func NextCommand() string { return "NX" }

// OutputBitCommand (OB) sets the output state of an external output bit.
func OutputBitCommand(sign Sign, bitNumber uint) string {
	return fmt.Sprintf("OB %s, %d", sign, bitNumber)
}

// OutputCounterCommand (OC) outputs a counter value through the output
// port.
func OutputCounterCommand(counterNumber, outputBit, bitWidth uint) string {
	return fmt.Sprintf("OC %d,%d,%d", counterNumber, outputBit, bitWidth)
}

// OutputDirectCommand (OD) outputs data unconditionally through the
// output port.
func OutputDirectCommand(outputData float64, outputBit, bitWidth uint) string {
	return fmt.Sprintf("OD %s,%d,%d", fnum(outputData), outputBit, bitWidth)
}

// OriginCommand (OG) moves to the user-defined origin, joint
// interpolation.
func OriginCommand() string { return "OG" }

// OpenChannelCommand (OPN) opens a communication channel on an I/O
// device.
func OpenChannelCommand(channelNumber, deviceNumber uint) string {
	return fmt.Sprintf("OPN %d, %d", channelNumber, deviceNumber)
}

// OrCommand (OR) ORs the data with the internal register.
func OrCommand(operationData float64) string {
	return fmt.Sprintf("OR %s", fnum(operationData))
}

// OverrideCommand (OVR) sets the program override percentage.
func OverrideCommand(override float64) string {
	return fmt.Sprintf("OVR %s", fnum(override))
}

// PalletAssignCommand (PA) defines the grid points of a pallet.
func PalletAssignCommand(palletNumber, columnPoints, rowPoints uint) string {
	return fmt.Sprintf("PA %d,%d,%d", palletNumber, columnPoints, rowPoints)
}

// PositionClearCommand (PC) clears the data of the position.
func PositionClearCommand(positionNumber uint) string {
	return fmt.Sprintf("PC %d", positionNumber)
}

// PositionDefineCommand (PD) defines the coordinates of the position.
func PositionDefineCommand(positionNumber uint, x, y, z, a, b float64) string {
	return fmt.Sprintf("PD %d, %s, %s, %s, %s, %s", positionNumber, fnum(x), fnum(y), fnum(z), fnum(a), fnum(b))
}

// PositionLoadCommand (PL) replaces position A by position B.
func PositionLoadCommand(positionA, positionB uint) string {
	return fmt.Sprintf("PL %d, %d", positionA, positionB)
}

// ParameterReadCommand (PMR) reads the contents of a parameter.
func ParameterReadCommand(parameterName string) string {
	return fmt.Sprintf("PMR %s", parameterName)
}

// ParameterWriteCommand (PMW) renews the contents of a parameter.
func ParameterWriteCommand(parameterName, contents string) string {
	return fmt.Sprintf("PMW %s, %s", parameterName, contents)
}

// PositionReadCommand (PR) reads the coordinates of the position and the
// hand state.
func PositionReadCommand(positionNumber uint) string {
	return fmt.Sprintf("PR %d", positionNumber)
}

// PalletCommand (PT) calculates a pallet grid point into the destination
// position.
func PalletCommand(palletNumber uint) string {
	return fmt.Sprintf("PT %d", palletNumber)
}

// PulseWaitCommand (PW) waits for servo in-position within the judgment
// pulse count.
func PulseWaitCommand(positioningPulse float64) string {
	return fmt.Sprintf("PW %s", fnum(positioningPulse))
}

// PositionExchangeCommand (PW a, b) exchanges the coordinates of two
// positions. Shares its mnemonic with PulseWait on this controller.
func PositionExchangeCommand(positionA, positionB uint) string {
	return fmt.Sprintf("PW %d, %d", positionA, positionB)
}

// QuestionNumberCommand (QN) reads the program name or information.
func QuestionNumberCommand(programName string) string {
	return fmt.Sprintf("QN %s", programName)
}

// RepeatCycleCommand (RC) repeats the NX loop the given number of times.
func RepeatCycleCommand(cycles uint) string {
	return fmt.Sprintf("RC %d", cycles)
}

// RunCommand (RN) resumes or starts execution of the selected program.
func RunCommand() string { return "RN" }

// RunProgramCommand (RN ,,name) runs the named program from the top.
func RunProgramCommand(programName string) string {
	return fmt.Sprintf("RN ,,%s", programName)
}

// RunRangeCommand (RN a, b, name) runs a line range of the named program.
func RunRangeCommand(startLine, endLine uint, programName string) string {
	return fmt.Sprintf("RN %d, %d, %s", startLine, endLine, programName)
}

// ResetCommand (RS) resets the program and error condition.
func ResetCommand(resetNumber uint) string {
	return fmt.Sprintf("RS %d", resetNumber)
}

// ReturnCommand (RT) completes a subroutine and returns to the main
// program.
func ReturnCommand(lineNumber uint) string {
	return fmt.Sprintf("RT %d", lineNumber)
}

// SetCounterCommand (SC) sets a value in the counter or character string.
// Both parameters travel as written, so callers may pass "$1" forms.
func SetCounterCommand(counterNumber, value string) string {
	return fmt.Sprintf("SC %s, %s", counterNumber, value)
}

// SpeedDefineCommand (SD) defines the moving velocity for linear and
// circular interpolation.
func SpeedDefineCommand(movingSpeed float64) string {
	return fmt.Sprintf("SD %s", fnum(movingSpeed))
}

// ShiftCommand (SF) adds the coordinates of position B to position A.
func ShiftCommand(positionA, positionB uint) string {
	return fmt.Sprintf("SF %d, %d", positionA, positionB)
}

// IfSmallerCommand (SM) jumps to the line when the internal register is
// smaller than the compared value.
func IfSmallerCommand(comparedValue string, branchLine uint) string {
	return fmt.Sprintf("SM %s, %d", comparedValue, branchLine)
}

// ServoOnCommand (SVO) turns the servo on.
func ServoOnCommand() string { return "SVO" }

// SpeedCommand (SP) sets the operating speed level, 0-30.
func SpeedCommand(speedLevel uint) string {
	return fmt.Sprintf("SP %d", speedLevel)
}

// StepReadCommand (STR) reads the contents of the step number. Query
// class; a bare CR reply marks the end of the program.
func StepReadCommand(stepNumber uint) string {
	return fmt.Sprintf("STR %d", stepNumber)
}

// TestBitCommand (TB) jumps according to a bit of the internal register.
func TestBitCommand(sign Sign, bitNumber, branchLine uint) string {
	return fmt.Sprintf("TB %s, %d, %d", sign, bitNumber, branchLine)
}

// TestBitDirectCommand (TB) jumps according to a bit of the external
// input.
func TestBitDirectCommand(sign Sign, inputBitNumber, branchLine uint) string {
	return fmt.Sprintf("TB %s, %d, %d", sign, inputBitNumber, branchLine)
}

// TimerCommand (TI) halts motion for the given time.
func TimerCommand(timerCounter float64) string {
	return fmt.Sprintf("TI %s", fnum(timerCounter))
}

// ToolCommand (TL) establishes the distance from the hand mounting
// surface to the hand tip.
func ToolCommand(toolLength float64) string {
	return fmt.Sprintf("TL %s", fnum(toolLength))
}

// VersionReadCommand (VR) reads the system ROM software version.
func VersionReadCommand() string { return "VR" }

// WhereCommand (WH) reads the current position and hand state. Query
// class.
func WhereCommand() string { return "WH" }

// WhatToolCommand (WT) reads the currently established tool length.
func WhatToolCommand() string { return "WT" }

// ExclusiveOrCommand (XO) XORs the data with the internal register.
func ExclusiveOrCommand(operationData uint) string {
	return fmt.Sprintf("XO %d", operationData)
}

// CommentCommand (') carries a program comment, up to 120 characters.
func CommentCommand(comment string) string {
	return fmt.Sprintf("' %s", comment)
}
