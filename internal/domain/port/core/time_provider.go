package core

import (
	"context"
	"time"
)

// Duration is the domain's span of time
type Duration time.Duration

const (
	Millisecond = Duration(time.Millisecond)
	Second      = Duration(time.Second)
	Minute      = Duration(time.Minute)
)

// Std converts to a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TimeProvider is the clock used by the domain. Ledger code never calls time.Now directly,
// so tests can pin the clock.
type TimeProvider interface {
	// Now returns the current time in UTC
	Now() time.Time
	Since(t time.Time) Duration
	Until(t time.Time) Duration
	Sleep(d Duration)
	WithTimeout(ctx context.Context, timeout Duration) (context.Context, context.CancelFunc)
	ParseDuration(s string) (Duration, error)
}
