// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the transport and session layers.
var (
	// ErrNotConnected is returned when a command is issued while the
	// link is closed.
	ErrNotConnected = errors.New("movemaster: not connected")

	// ErrQueryInFlight is returned when a query is started while another
	// query is still awaiting its reply. The wire protocol has no message
	// IDs, so two outstanding queries cannot be correlated.
	ErrQueryInFlight = errors.New("movemaster: another query is awaiting its reply")

	// ErrNoReply is returned when no reply frame arrived before the
	// wait timeout elapsed.
	ErrNoReply = errors.New("movemaster: no reply frame before timeout")
)

// AlarmError reports a nonzero error code returned by the controller's
// error-status query. It signals a device-side fault and aborts the
// enclosing transfer; every other fault class is absorbed locally.
type AlarmError struct {
	Code int
}

func (e *AlarmError) Error() string {
	return fmt.Sprintf("movemaster: action interrupted with error code %d", e.Code)
}
