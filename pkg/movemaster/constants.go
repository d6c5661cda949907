// SPDX-License-Identifier: Apache-2.0

// Package movemaster implements the serial command protocol of the
// Mitsubishi Movemaster E3J articulated manipulator.
//
// The protocol is line-oriented ASCII: every command is a short alphabetic
// mnemonic plus comma-separated parameters, terminated with a carriage
// return. The package provides the frame transport, the command encoder,
// the typed instruction API and the program upload/download engine.
package movemaster

import "time"

// Stride is the fixed increment used when assigning device-side line
// numbers to consecutive program lines (1, 6, 11, ...).
const Stride = 5

// Protocol timing. The controller needs a settle period after opening the
// link and after program selection before the next command is safe to send.
const (
	OpenSettleDelay   = 1000 * time.Millisecond
	SelectSettleDelay = 1000 * time.Millisecond
	UploadLineDelay   = 500 * time.Millisecond
	StopSettleDelay   = 200 * time.Millisecond

	// HeartbeatInterval is the connectivity sampling period.
	HeartbeatInterval = 500 * time.Millisecond

	// WaitFrameTimeout bounds WaitForFrame; a reply that takes longer
	// than this is treated as absent.
	WaitFrameTimeout = 4 * time.Second
)

// Grip represents the open/close state of the hand.
type Grip int

// Grip states
const (
	GripClosed Grip = iota
	GripOpen
)

// String returns the wire token for the grip state ("O" or "C").
func (g Grip) String() string {
	if g == GripOpen {
		return "O"
	}
	return "C"
}

// Joint identifies one of the five axes.
type Joint int

// Joint numbers as used by the DJ command.
const (
	JointWaist Joint = iota + 1
	JointShoulder
	JointElbow
	JointPitch
	JointRoll
)

// OriginMethod selects how the HO command establishes the origin.
type OriginMethod int

// Origin setting methods
const (
	OriginMechanicalStopper OriginMethod = iota
	OriginJig
	OriginUserDefined
)

// Interpolation selects the path mode for playback move commands.
type Interpolation int

// Interpolation modes
const (
	InterpolationJoint Interpolation = iota
	InterpolationLinear
	InterpolationCircular
)

// Sign is the +/- selector used by bit-test and interrupt commands.
type Sign int

// Sign values
const (
	SignPlus Sign = iota
	SignMinus
)

// String returns the wire token for the sign ("+" or "-").
func (s Sign) String() string {
	if s == SignMinus {
		return "-"
	}
	return "+"
}

// RegisterContent selects what an NP (input) command reads.
type RegisterContent int

// Register content kinds
const (
	ContentCounter RegisterContent = iota
	ContentPosition
	ContentCharacterString
)

// Terminator is the frame terminator appended to outgoing commands.
type Terminator string

// Frame terminators
const (
	TerminatorNone Terminator = "NONE"
	TerminatorCR   Terminator = "CR"
	TerminatorLF   Terminator = "LF"
	TerminatorCRLF Terminator = "CRLF"
)

// terminatorBytes maps each terminator to the characters it appends.
var terminatorBytes = map[Terminator]string{
	TerminatorNone: "",
	TerminatorCR:   "\r",
	TerminatorLF:   "\n",
	TerminatorCRLF: "\r\n",
}

// Bytes returns the characters the terminator appends to a command.
func (t Terminator) Bytes() string {
	return terminatorBytes[t]
}
