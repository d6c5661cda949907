// SPDX-License-Identifier: Apache-2.0

package movemaster

import "testing"

func TestParseWhereResponse(t *testing.T) {
	frame := "+12.500,+34.000,+156.250,+0.000,-90.000,+0.000,+0.000,R,A,O\r"

	p, err := ParseWhereResponse(frame)
	if err != nil {
		t.Fatalf("ParseWhereResponse() = %v", err)
	}
	if p.X != 12.5 {
		t.Errorf("X = %v, want 12.5", p.X)
	}
	if p.Y != 34.0 {
		t.Errorf("Y = %v, want 34.0", p.Y)
	}
	if p.Z != 156.25 {
		t.Errorf("Z = %v, want 156.25", p.Z)
	}
	if p.B != -90.0 {
		t.Errorf("B = %v, want -90.0", p.B)
	}
	if p.Grip != GripOpen {
		t.Errorf("Grip = %v, want GripOpen", p.Grip)
	}
}

func TestParseWhereResponseGripClosed(t *testing.T) {
	frame := "+1.000,+2.000,+3.000,+4.000,+5.000,+6.000,+7.000,L,B,C\r"
	p, err := ParseWhereResponse(frame)
	if err != nil {
		t.Fatalf("ParseWhereResponse() = %v", err)
	}
	if p.Grip != GripClosed {
		t.Errorf("Grip = %v, want GripClosed", p.Grip)
	}
}

func TestParseWhereResponseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"missing sign", "12.500,+34.000,+156.250,+0.000,-90.000,+0.000,+0.000,R,A,O\r"},
		{"too few fields", "+12.500,+34.000,R,A,O\r"},
		{"integer axis", "+12,+34.000,+156.250,+0.000,-90.000,+0.000,+0.000,R,A,O\r"},
		{"bad grip token", "+12.500,+34.000,+156.250,+0.000,-90.000,+0.000,+0.000,R,A,X\r"},
		{"empty", "\r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p, err := ParseWhereResponse(tt.frame); err == nil {
				t.Errorf("ParseWhereResponse() = %+v, want error", p)
			}
		})
	}
}
