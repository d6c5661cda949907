// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"regexp"
	"strconv"
	"strings"
)

// Program content conversion between the controller's numbered form and
// the editable form shown to the user. The controller stores absolute line
// numbers in Stride steps (1, 6, 11, ...), and subroutine calls (GS)
// address those absolute numbers; the editable form is unnumbered and GS
// addresses 1-based logical line indexes. The transform is idempotent on
// logical content, not on literal device line numbers: renumbering always
// reassigns the fixed stride.

var (
	leadingLineNumber = regexp.MustCompile(`^\s*\d+\s*`)
	goSubLine         = regexp.MustCompile(`^\s*GS\s+([1-9][0-9]{0,3})\s*$`)
	trailingNumber    = regexp.MustCompile(`([1-9][0-9]{0,3})\s*$`)
)

// ToPC converts controller program text into the editable form: the
// leading line number is stripped from every line and GS targets are
// mapped from absolute device lines to logical line indexes.
func ToPC(content string) string {
	lines := splitProgramLines(content)
	for i, line := range lines {
		line = leadingLineNumber.ReplaceAllString(line, "")
		if goSubLine.MatchString(line) {
			target := lineDigits(line)
			logical := (target + Stride - 1) / Stride
			line = trailingNumber.ReplaceAllString(line, strconv.Itoa(logical))
		}
		lines[i] = line
	}
	return strings.Join(lines, "\r\n")
}

// ToManipulator converts editable program text into the controller form:
// GS targets are mapped from logical line indexes to absolute device
// lines, then every line is prefixed with its device line number.
func ToManipulator(content string) string {
	lines := splitProgramLines(content)
	lineNumber := 1
	for i, line := range lines {
		if goSubLine.MatchString(line) {
			logical := lineDigits(line)
			target := logical*Stride - Stride + 1
			line = trailingNumber.ReplaceAllString(line, strconv.Itoa(target))
		}
		lines[i] = strconv.Itoa(lineNumber) + " " + line
		lineNumber += Stride
	}
	return strings.Join(lines, "\r\n")
}

func splitProgramLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// lineDigits extracts the numeric argument of a matched GS line.
func lineDigits(line string) int {
	n, _ := strconv.Atoi(trailingNumber.FindString(strings.TrimSpace(line)))
	return n
}
