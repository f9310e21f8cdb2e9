package converge

import (
	"context"
	"time"
)

// Sleeper is the suspension seam of the controller. Tests substitute it to
// run without wall-clock waits.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// WallClock sleeps for real, honoring context cancellation.
type WallClock struct{}

// Sleep blocks for d or until ctx is done, whichever comes first.
func (WallClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
