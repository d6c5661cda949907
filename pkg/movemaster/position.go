// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// wherePattern matches a WH reply: seven signed fixed-point fields, then
// the R/L, A/B and O/C selectors. Ten comma-separated fields total.
var wherePattern = regexp.MustCompile(`^((\+|-)(\d+\.\d+,)){7}[R|L],[A|B],[O|C]$`)

// Position is one robot pose: the six numeric axes plus the hand state.
type Position struct {
	ID   int
	X    float64
	Y    float64
	Z    float64
	A    float64
	B    float64
	L1   float64
	Grip Grip
}

// NewPosition constructs a user-defined target pose.
func NewPosition(id int, x, y, z, a, b, l1 float64, grip Grip) *Position {
	return &Position{ID: id, X: x, Y: y, Z: z, A: a, B: b, L1: l1, Grip: grip}
}

// ParseWhereResponse builds a Position from a WH reply frame. The frame's
// terminator is stripped before matching. A malformed reply yields no
// Position; the error carries the reason for the log line.
func ParseWhereResponse(frame string) (*Position, error) {
	content := TrimFrame(frame)
	if !wherePattern.MatchString(content) {
		return nil, fmt.Errorf("movemaster: malformed WH response %q", content)
	}

	fields := strings.Split(content, ",")
	if len(fields) != 10 {
		return nil, fmt.Errorf("movemaster: WH response has %d fields, want 10", len(fields))
	}

	axes := make([]float64, 6)
	for i := range axes {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("movemaster: WH axis %d: %w", i, err)
		}
		axes[i] = v
	}

	grip := GripClosed
	if fields[9] == "O" {
		grip = GripOpen
	}

	return &Position{
		X:    axes[0],
		Y:    axes[1],
		Z:    axes[2],
		A:    axes[3],
		B:    axes[4],
		L1:   axes[5],
		Grip: grip,
	}, nil
}
