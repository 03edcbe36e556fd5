package models

import "time"

// Clock is injected wherever "now" matters, so state derivation and
// conflict queries are testable with a fixed time.
type Clock interface {
	Now() time.Time
}

func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
