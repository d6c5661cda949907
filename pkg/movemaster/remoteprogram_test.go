// SPDX-License-Identifier: Apache-2.0

package movemaster

import "testing"

func TestParseRemoteProgram(t *testing.T) {
	remote := ParseRemoteProgram("QoK12345.RE2;512;010122083000\r")
	if remote == nil {
		t.Fatal("ParseRemoteProgram() = nil, want entry")
	}
	if remote.Name != "12345" {
		t.Errorf("Name = %q, want %q", remote.Name, "12345")
	}
	if remote.Size != 512 {
		t.Errorf("Size = %d, want 512", remote.Size)
	}
	if remote.Timestamp != "01 January 2022 08:30:00" {
		t.Errorf("Timestamp = %q, want %q", remote.Timestamp, "01 January 2022 08:30:00")
	}
}

func TestParseRemoteProgramDashedDate(t *testing.T) {
	remote := ParseRemoteProgram("QoKPICK.RE2;2048;15-06-23 141502\r")
	if remote == nil {
		t.Fatal("ParseRemoteProgram() = nil, want entry")
	}
	if remote.Timestamp != "15 June 2023 14:15:02" {
		t.Errorf("Timestamp = %q, want %q", remote.Timestamp, "15 June 2023 14:15:02")
	}
}

func TestParseRemoteProgramRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"empty slot", "QoK12345.RE2;0;010122083000\r"},
		{"size not numeric", "QoK12345.RE2;big;010122083000\r"},
		{"missing extension", "QoK12345;512;010122083000\r"},
		{"missing QoK token", "12345.RE2;512;010122083000\r"},
		{"too few fields", "QoK12345.RE2;512\r"},
		{"empty frame", "\r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if remote := ParseRemoteProgram(tt.frame); remote != nil {
				t.Errorf("ParseRemoteProgram(%q) = %+v, want nil", tt.frame, remote)
			}
		})
	}
}

func TestProgramLines(t *testing.T) {
	p := NewProgram("PICK")
	p.Content = "MO 1\r\nGC\n\nED"
	got := p.Lines()
	want := []string{"MO 1", "GC", "ED"}
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
