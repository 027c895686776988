package capture

import (
	"context"
	"time"
)

// Loop calls step on every tick of interval until ctx is done. It stands in
// for the display refresh when no renderer drives the frames.
func Loop(ctx context.Context, interval time.Duration, step func(now time.Time)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			step(now)
		}
	}
}
