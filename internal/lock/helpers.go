package lock

import (
	"context"
	"time"
)

func TimedLock(ctx context.Context, lock Locker, seriesID int64, timeout time.Duration) (Unlocker, error) {
	tCtx, tCancel := context.WithTimeout(ctx, timeout)
	defer tCancel()

	return lock.ContextLock(tCtx, seriesID)
}
