package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/motortrade/notification-api/internal/model"
)

// Filter narrows List and Count. Set fields combine conjunctively.
type Filter struct {
	NotificationType string
	Source           string
	Priority         string
}

// NotificationRepository persists notification events.
type NotificationRepository interface {
	Create(ctx context.Context, event *model.NotificationEvent) error
	Get(ctx context.Context, id uuid.UUID) (*model.NotificationEvent, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*model.NotificationEvent, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
