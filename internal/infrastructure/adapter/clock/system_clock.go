package clock

import (
	"context"
	"strconv"
	"time"

	"github.com/fireesports/ledger/internal/domain/port/core"
)

// SystemClock is the wall clock, reported in UTC
type SystemClock struct{}

// NewSystemClock returns the process clock
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (SystemClock) Since(t time.Time) core.Duration {
	return core.Duration(time.Since(t))
}

func (SystemClock) Until(t time.Time) core.Duration {
	return core.Duration(time.Until(t))
}

func (SystemClock) Sleep(d core.Duration) {
	time.Sleep(d.Std())
}

func (SystemClock) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// ParseDuration accepts Go duration strings, and bare integers as seconds
func (SystemClock) ParseDuration(s string) (core.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return core.Duration(time.Duration(secs) * time.Second), nil
	}
	d, err := time.ParseDuration(s)
	return core.Duration(d), err
}
