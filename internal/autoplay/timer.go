// Package autoplay paces repeated board advances.
package autoplay

import (
	"context"
	"errors"
	"time"
)

// DefaultInterval is the pause between generations during autoplay.
const DefaultInterval = 700 * time.Millisecond

// FixedStep helps run updates at a steady interval from a frame loop that
// ticks faster than the interval.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep that fires once per interval. The first
// call to ShouldStep fires immediately.
func NewFixedStep(interval time.Duration) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetInterval(interval)
	fs.accumulator = fs.step
	return fs
}

// SetInterval changes the step length. Non-positive values fall back to
// DefaultInterval.
func (f *FixedStep) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	f.step = interval
}

// Interval returns the current step length.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the caller should advance by one step.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		// A long stall would otherwise replay every missed step back to back.
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}

// ErrStop may be returned by a Loop step to end the loop without an error.
var ErrStop = errors.New("autoplay: stop")

// Loop calls step once immediately and then once per interval until ctx is
// done, step returns ErrStop, or step fails. Cancellation and ErrStop end the
// loop with a nil error.
func Loop(ctx context.Context, interval time.Duration, step func(context.Context) error) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := step(ctx); err != nil {
			if errors.Is(err, ErrStop) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
