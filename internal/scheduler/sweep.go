package scheduler

import (
	"context"
	"time"

	"estatepilot_backend/platform/logger"
)

const (
	defaultSweepInterval = 5 * time.Minute
	sweepBatchSize       = 100
)

// FollowUpSweeper re-enqueues due follow-ups whose queue entries were lost,
// e.g. after a Redis flush.
type FollowUpSweeper interface {
	Sweep(ctx context.Context, limit int) (int, error)
}

// Sweep periodically walks due follow-ups and pushes them back on the queue.
type Sweep struct {
	sweeper  FollowUpSweeper
	log      *logger.Logger
	interval time.Duration
}

func NewSweep(sweeper FollowUpSweeper, log *logger.Logger, interval time.Duration) *Sweep {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweep{
		sweeper:  sweeper,
		log:      log,
		interval: interval,
	}
}

func (s *Sweep) Run(ctx context.Context) {
	if s == nil || s.sweeper == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweep) sweep(ctx context.Context) {
	requeued, err := s.sweeper.Sweep(ctx, sweepBatchSize)
	if err != nil {
		s.log.Warn("followup sweep failed", "error", err)
		return
	}
	if requeued > 0 {
		s.log.Info("followup sweep requeued due followups", "requeued", requeued)
	}
}
