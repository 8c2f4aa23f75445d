package hub75

import (
	"context"
	"time"
)

// Delayer is the timing capability consumed by the scan-out engine.
// Delay must suspend the calling goroutine for roughly d and yield to
// the scheduler rather than spin; it is the only suspension point of a
// refresh pass. Delay returns the context's error when the wait is cut
// short by cancellation.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// TimerDelayer waits on a runtime timer. The select yields the
// goroutine for the whole hold interval, so concurrent work proceeds
// while the row stays lit.
type TimerDelayer struct{}

// Delay implements Delayer.
func (TimerDelayer) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
