package capture

import "errors"

// Sentinel errors returned by engine operations.
var (
	// ErrAlreadyRunning is returned by Start when this engine is already running.
	ErrAlreadyRunning = errors.New("capture engine is already running")

	// ErrAlreadyCaptured is returned by Start when another process (or another
	// engine in this process) already holds the exclusivity mutex for the
	// requested name.
	ErrAlreadyCaptured = errors.New("debug output is already captured by another listener")

	// ErrResourceUnavailable is returned by Start when a kernel object could
	// not be created or mapped. Everything acquired earlier in the same Start
	// call has been released by the time this error is returned.
	ErrResourceUnavailable = errors.New("kernel resources unavailable")
)
