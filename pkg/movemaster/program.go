// SPDX-License-Identifier: Apache-2.0

package movemaster

import "strings"

// Program is a robot program held on the PC side: raw line-delimited text
// plus the metadata carried over from the listing. A program has no
// identity beyond its name; uploading under an existing remote name
// overwrites that program on the controller.
type Program struct {
	Name      string
	Path      string
	Content   string
	Size      int
	Timestamp string
}

// NewProgram creates an empty, user-authored program.
func NewProgram(name string) *Program {
	return &Program{Name: name}
}

// NewProgramFromRemote creates a program carrying a downloaded remote
// program's metadata and content.
func NewProgramFromRemote(remote *RemoteProgram, content string) *Program {
	return &Program{
		Name:      remote.Name,
		Size:      remote.Size,
		Timestamp: remote.Timestamp,
		Content:   content,
	}
}

// Lines splits the content into its non-empty lines.
func (p *Program) Lines() []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(p.Content, "\r\n", "\n"), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Clone returns a shallow copy of the program.
func (p *Program) Clone() *Program {
	clone := *p
	return &clone
}
