package maintenance

import "errors"

var (
	// ErrAlreadyStarted is returned by Cleanup.Start while the idle session
	// sweep is already scheduled.
	ErrAlreadyStarted = errors.New("maintenance: session cleanup already running")

	// ErrNotStarted is returned by Cleanup.Stop when no sweep is scheduled.
	// Replicas that never won the cleanup lease see it on shutdown.
	ErrNotStarted = errors.New("maintenance: session cleanup not running")
)
