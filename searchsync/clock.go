package searchsync

import "time"

// Timer is a pending debounce callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// timer already fired or was stopped.
	Stop() bool
}

// Clock schedules debounce callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// realClock schedules with time.AfterFunc.
type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns the wall clock.
func RealClock() Clock {
	return realClock{}
}
