package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motortrade/notification-api/internal/repository"
)

type cleanupRepo struct {
	repository.NotificationRepository

	deleted    int64
	lastCutoff time.Time
	err        error
}

func (r *cleanupRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.lastCutoff = cutoff
	return r.deleted, r.err
}

func TestCutoff(t *testing.T) {
	w := NewCleanupWorker(&cleanupRepo{}, 90, time.Hour, zerolog.Nop())

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC), w.Cutoff(now))
}

func TestCleanupDeletesBeforeCutoff(t *testing.T) {
	repo := &cleanupRepo{deleted: 12}
	w := NewCleanupWorker(repo, 30, time.Hour, zerolog.Nop())

	require.NoError(t, w.cleanup(context.Background()))
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -30), repo.lastCutoff, time.Minute)
}

func TestCleanupPropagatesError(t *testing.T) {
	repo := &cleanupRepo{err: assert.AnError}
	w := NewCleanupWorker(repo, 30, time.Hour, zerolog.Nop())

	assert.Error(t, w.cleanup(context.Background()))
}

func TestStartStopsOnContextCancel(t *testing.T) {
	w := NewCleanupWorker(&cleanupRepo{}, 30, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
