package services

import "time"

// Clock is injected everywhere "now" matters, so lifecycle rules and overdue
// detection are testable with a frozen time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }
