package vecmem

import "errors"

var (
	// ErrMonitorStarted is returned when Start is called on a running monitor.
	ErrMonitorStarted = errors.New("monitor already started")

	// ErrInvalidInterval is returned when a monitor interval is not positive.
	ErrInvalidInterval = errors.New("interval must be positive")
)
