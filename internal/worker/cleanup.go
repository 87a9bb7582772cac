package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/motortrade/notification-api/internal/repository"
)

// CleanupWorker deletes notifications older than the retention window on a
// fixed interval.
type CleanupWorker struct {
	repo          repository.NotificationRepository
	retentionDays int
	interval      time.Duration
	logger        zerolog.Logger
}

func NewCleanupWorker(repo repository.NotificationRepository, retentionDays int, interval time.Duration, logger zerolog.Logger) *CleanupWorker {
	return &CleanupWorker{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error().Err(err).Msg("notification cleanup failed")
			}
		}
	}
}

// Cutoff returns the stored_at threshold below which rows are deleted.
func (w *CleanupWorker) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -w.retentionDays)
}

func (w *CleanupWorker) cleanup(ctx context.Context) error {
	cutoff := w.Cutoff(time.Now().UTC())

	deleted, err := w.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	w.logger.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("cleaned up old notifications")
	return nil
}
