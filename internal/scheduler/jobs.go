package scheduler

import (
	"context"
	"time"
)

const (
	JobContentSync  = "content-sync"
	JobLimiterPrune = "limiter-prune"
)

// LimiterPruner drops idle rate limiter state.
type LimiterPruner interface {
	PruneLimiter(idle time.Duration) int
}

// PruneLimiterJob removes limiter buckets idle for longer than idle. report
// receives the number of pruned buckets when non-nil.
func PruneLimiterJob(pruner LimiterPruner, idle time.Duration, report func(pruned int)) JobFunc {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		pruned := pruner.PruneLimiter(idle)
		if report != nil {
			report(pruned)
		}
		return nil
	}
}
