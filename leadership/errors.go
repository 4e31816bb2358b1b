package leadership

import "errors"

var (
	// ErrAlreadyStarted is returned by Elector.Start while this replica is
	// already competing for the cleanup lease.
	ErrAlreadyStarted = errors.New("leadership: lease election already running")

	// ErrNotStarted is returned by Elector.Stop when no election is running.
	ErrNotStarted = errors.New("leadership: lease election not running")
)
