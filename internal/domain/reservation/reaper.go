package reservation

import (
	"context"
	"time"

	"stockhub/pkg/logger"
)

// ReaperConfig controls the expiry sweep.
type ReaperConfig struct {
	Interval  time.Duration
	BatchSize int
}

// DefaultReaperConfig returns production defaults.
func DefaultReaperConfig() ReaperConfig {
	return ReaperConfig{
		Interval:  time.Minute,
		BatchSize: 100,
	}
}

// Reaper periodically releases holds for reservations past their expiry.
type Reaper struct {
	service *Service
	cfg     ReaperConfig
}

// NewReaper creates a new expiry reaper.
func NewReaper(service *Service, cfg ReaperConfig) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultReaperConfig().Interval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultReaperConfig().BatchSize
	}
	return &Reaper{service: service, cfg: cfg}
}

// Run sweeps until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	logger.Info(ctx, "reservation reaper started",
		"interval", r.cfg.Interval,
		"batch_size", r.cfg.BatchSize,
	)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "reservation reaper stopped")
			return
		case <-ticker.C:
			if _, err := r.service.ExpireDue(ctx, time.Now(), r.cfg.BatchSize); err != nil {
				logger.Error(ctx, "expiry sweep failed", "error", err)
			}
		}
	}
}
