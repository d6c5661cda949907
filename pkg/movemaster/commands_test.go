// SPDX-License-Identifier: Apache-2.0

package movemaster

import "testing"

func TestCommandEncoding(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"draw joint keeps space after comma", DrawJointCommand(JointWaist, 12.5), "DJ 1, 12.5"},
		{"draw joint elbow negative", DrawJointCommand(JointElbow, -4.25), "DJ 3, -4.25"},
		{"move grip has no space after comma", MoveGripCommand(7, GripOpen), "MO 7,O"},
		{"move grip closed", MoveGripCommand(12, GripClosed), "MO 12,C"},
		{"move plain", MoveCommand(3), "MO 3"},
		{"number quotes the program name", NumberCommand("12345"), `N "12345"`},
		{"run named program", RunProgramCommand("PICK"), "RN ,,PICK"},
		{"run range", RunRangeCommand(10, 40, "PICK"), "RN 10, 40, PICK"},
		{"set counter", SetCounterCommand("2", "15"), "SC 2, 15"},
		{"go sub", GoSubCommand(11), "GS 11"},
		{"comment leads with apostrophe", CommentCommand("pick station A"), "' pick station A"},
		{"step read", StepReadCommand(4), "STR 4"},
		{"reset", ResetCommand(0), "RS 0"},
		{"halt", HaltCommand(), "HLT"},
		{"error read", ErrorReadCommand(), "ER"},
		{"where", WhereCommand(), "WH"},
		{"move position", MovePositionCommand(10, 20.5, 30, 0, -90), "MP 10,20.5,30,0,-90"},
		{"position define", PositionDefineCommand(5, 1.5, 2, 3, 4, 5), "PD 5, 1.5, 2, 3, 4, 5"},
		{"move joint", MoveJointCommand(10, 0, -5.5, 0, 90), "MJ 10,0,-5.5,0,90"},
		{"output bit signed", OutputBitCommand(SignMinus, 3), "OB -, 3"},
		{"test bit", TestBitCommand(SignPlus, 2, 100), "TB +, 2, 100"},
		{"counter load string register", CounterLoadStringCommand(2), "CL $2"},
		{"compare counter string register", CompareCounterStringCommand(1), "CP $1"},
		{"counter read string register", CounterReadStringCommand(9), "CR $9"},
		{"home against mechanical stopper", HomeCommand(OriginMechanicalStopper), "HO 0"},
		{"home against jig", HomeCommand(OriginJig), "HO 1"},
		{"move tool grip", MoveToolGripCommand(4, -15.5, GripClosed), "MT 4,-15.5,C"},
		{"speed define", SpeedDefineCommand(62.3), "SD 62.3"},
		{"timer", TimerCommand(1.5), "TI 1.5"},
		{"tool length", ToolCommand(123.45), "TL 123.45"},
		{"override", OverrideCommand(80), "OVR 80"},
		{"joint roll change", JointRollChangeCommand(-1), "JRC -1"},
		{"parameter write", ParameterWriteCommand("PAR1", "100"), "PMW PAR1, 100"},
		{"servo on", ServoOnCommand(), "SVO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("encoded %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCommandEncodingIsDeterministic(t *testing.T) {
	first := MovePlaybackContinuousCommand(InterpolationLinear, 1.1, 2.2, 3.3, 4.4, 5.5)
	for i := 0; i < 10; i++ {
		again := MovePlaybackContinuousCommand(InterpolationLinear, 1.1, 2.2, 3.3, 4.4, 5.5)
		if again != first {
			t.Fatalf("encoding varied between calls: %q then %q", first, again)
		}
	}
}

func TestFloatParametersNeverUseExponentNotation(t *testing.T) {
	got := SpeedDefineCommand(0.0001)
	want := "SD 0.0001"
	if got != want {
		t.Errorf("encoded %q, want %q", got, want)
	}
}
