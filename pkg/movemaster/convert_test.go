// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"strings"
	"testing"
)

func TestToPC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips leading line numbers",
			in:   "1 MO 1\r\n6 GC\r\n11 ED",
			want: "MO 1\r\nGC\r\nED",
		},
		{
			name: "subroutine target maps to logical index",
			in:   "1 GS 11",
			want: "GS 3",
		},
		{
			name: "first device line maps to logical one",
			in:   "1 GS 1",
			want: "GS 1",
		},
		{
			name: "non subroutine numbers untouched",
			in:   "1 MO 11\r\n6 SP 9",
			want: "MO 11\r\nSP 9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPC(tt.in); got != tt.want {
				t.Errorf("ToPC(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToManipulator(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "numbers lines in stride steps",
			in:   "MO 1\r\nGC\r\nED",
			want: "1 MO 1\r\n6 GC\r\n11 ED",
		},
		{
			name: "subroutine target maps to device line",
			in:   "GS 3",
			want: "1 GS 11",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToManipulator(tt.in); got != tt.want {
				t.Errorf("ToManipulator(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Renumbering a device program and converting it back must reproduce the
// original line numbers exactly when nothing was edited in between.
func TestConversionRoundTripOnLogicalContent(t *testing.T) {
	device := strings.Join([]string{
		"1 MO 1",
		"6 GS 16",
		"11 ED",
		"16 GC",
		"21 RT 0",
	}, "\r\n")

	human := ToPC(device)
	back := ToManipulator(human)
	if back != device {
		t.Errorf("round trip = %q, want %q", back, device)
	}
	if again := ToPC(back); again != human {
		t.Errorf("ToPC is not idempotent on logical content: %q vs %q", again, human)
	}
}
