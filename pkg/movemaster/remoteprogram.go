// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RemoteProgram describes one program stored on the controller, as parsed
// from a directory-listing reply. A frame that fails to parse yields no
// RemoteProgram rather than an error: the listing loop skips it.
type RemoteProgram struct {
	Name      string
	Size      int
	Timestamp string
}

// ParseRemoteProgram builds a RemoteProgram from one listing reply frame.
// The reply is semicolon-delimited: field 0 carries the name between the
// "QoK" token and the ".RE2" suffix, field 1 the size (zero means the slot
// is empty and is discarded), field 2 an 8-character DD-MM-YY date followed
// by the time digits.
func ParseRemoteProgram(frame string) *RemoteProgram {
	fields := strings.Split(TrimFrame(frame), ";")
	if len(fields) < 3 {
		return nil
	}
	if !strings.HasSuffix(fields[0], "RE2") {
		return nil
	}

	start := strings.Index(fields[0], "QoK")
	if start < 0 {
		return nil
	}
	start += len("QoK")
	end := strings.Index(fields[0][start:], ".RE2")
	if end < 0 {
		return nil
	}
	name := fields[0][start : start+end]

	size, err := strconv.Atoi(fields[1])
	if err != nil || size == 0 {
		return nil
	}

	return &RemoteProgram{
		Name:      name,
		Size:      size,
		Timestamp: formatListingTimestamp(fields[2]),
	}
}

// formatListingTimestamp renders the raw listing timestamp as display
// text, "02 January 2006 15:04:05". The date is the first 8 characters as
// DD-MM-YY (dashes optional on some firmware); the rest is the time
// digits. Unrecognized input passes through unchanged.
func formatListingTimestamp(raw string) string {
	var day, month, year, rest string
	switch {
	case len(raw) >= 8 && strings.Count(raw[:8], "-") == 2:
		parts := strings.SplitN(raw[:8], "-", 3)
		day, month, year = parts[0], parts[1], parts[2]
		rest = raw[8:]
	case len(raw) >= 6:
		day, month, year = raw[0:2], raw[2:4], raw[4:6]
		rest = raw[6:]
	default:
		return raw
	}

	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return raw
	}

	return fmt.Sprintf("%s %s 20%s %s", day, time.Month(m), year, formatListingTime(rest))
}

// formatListingTime inserts colons into a bare HHMMSS digit run.
func formatListingTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) == 6 && strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		return raw[0:2] + ":" + raw[2:4] + ":" + raw[4:6]
	}
	return raw
}
