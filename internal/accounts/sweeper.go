package accounts

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically applies the subscription expiry rule to every user.
type Sweeper struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a sweeper running every interval.
func NewSweeper(service *Service, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (sw *Sweeper) Run(ctx context.Context) {
	if sw.interval <= 0 {
		sw.logger.Warn("Subscription sweeper disabled", zap.Duration("interval", sw.interval))
		return
	}

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.logger.Info("Starting subscription sweeper", zap.Duration("interval", sw.interval))
	sw.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info("Stopping subscription sweeper...")
			return
		case <-ticker.C:
			sw.sweep(ctx)
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	renewed, suspended, err := sw.service.Sweep(ctx)
	if err != nil {
		sw.logger.Error("Subscription sweep failed", zap.Error(err))
		return
	}
	if renewed > 0 || suspended > 0 {
		sw.logger.Info("Subscription sweep finished",
			zap.Int("renewed", renewed), zap.Int("suspended", suspended))
	}
}
