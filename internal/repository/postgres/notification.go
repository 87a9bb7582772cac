package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/motortrade/notification-api/internal/model"
	"github.com/motortrade/notification-api/internal/repository"
	"github.com/motortrade/notification-api/pkg/errors"
)

type notificationRepository struct {
	*BaseRepository
}

func NewNotificationRepository(base *BaseRepository) repository.NotificationRepository {
	return &notificationRepository{BaseRepository: base}
}

// notificationRow is the persisted layout; payload and metadata live as
// JSONB columns.
type notificationRow struct {
	Seq              int64          `db:"seq"`
	NotificationID   uuid.UUID      `db:"notification_id"`
	NotificationType string         `db:"notification_type"`
	Source           string         `db:"source"`
	Payload          types.JSONText `db:"payload"`
	Priority         string         `db:"priority"`
	Timestamp        time.Time      `db:"event_time"`
	ReferenceID      sql.NullString `db:"reference_id"`
	Metadata         types.JSONText `db:"metadata"`
	StoredAt         time.Time      `db:"stored_at"`
}

func (r *notificationRepository) Create(ctx context.Context, event *model.NotificationEvent) error {
	event.ID = uuid.New()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.StoredAt = time.Now().UTC()

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return errors.Storage("failed to encode payload", err)
	}

	var metadata interface{}
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return errors.Storage("failed to encode metadata", err)
		}
		metadata = raw
	}

	var referenceID interface{}
	if event.ReferenceID != "" {
		referenceID = event.ReferenceID
	}

	query := `
		INSERT INTO notifications (
			notification_id, notification_type, source, payload,
			priority, event_time, reference_id, metadata, stored_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq
	`
	err = r.db.QueryRowxContext(ctx, query,
		event.ID,
		event.NotificationType,
		event.Source,
		payload,
		event.Priority,
		event.Timestamp,
		referenceID,
		metadata,
		event.StoredAt,
	).Scan(&event.Seq)
	if err != nil {
		return errors.Storage("failed to store notification", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.NotificationEvent, error) {
	query := selectColumns + ` FROM notifications WHERE notification_id = $1`

	var row notificationRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("notification")
	}
	if err != nil {
		return nil, errors.Storage("failed to get notification", err)
	}
	return row.toEvent()
}

func (r *notificationRepository) List(ctx context.Context, filter repository.Filter, limit, offset int) ([]*model.NotificationEvent, error) {
	where, args := buildFilterClause(filter)
	args = append(args, limit, offset)

	// seq is the tie-break so pages stay stable when several events share
	// a stored_at timestamp.
	query := fmt.Sprintf(
		`%s FROM notifications WHERE %s ORDER BY stored_at DESC, seq DESC LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)-1, len(args),
	)

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Storage("failed to list notifications", err)
	}

	events := make([]*model.NotificationEvent, 0, len(rows))
	for i := range rows {
		event, err := rows[i].toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *notificationRepository) Count(ctx context.Context, filter repository.Filter) (int, error) {
	where, args := buildFilterClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM notifications WHERE %s`, where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Storage("failed to count notifications", err)
	}
	return count, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE notification_id = $1`, id)
	if err != nil {
		return errors.Storage("failed to delete notification", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Storage("failed to delete notification", err)
	}
	if rows == 0 {
		return errors.NotFound("notification")
	}
	return nil
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE stored_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Storage("failed to delete old notifications", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Storage("failed to delete old notifications", err)
	}
	return rows, nil
}

const selectColumns = `SELECT seq, notification_id, notification_type, source, payload,
	priority, event_time, reference_id, metadata, stored_at`

// buildFilterClause renders the conjunctive WHERE clause for the set
// filters and returns it with positional args, "1=1" when none are set.
func buildFilterClause(filter repository.Filter) (string, []interface{}) {
	where := "1=1"
	var args []interface{}

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}

	add("notification_type", filter.NotificationType)
	add("source", filter.Source)
	add("priority", filter.Priority)

	return where, args
}

func (row *notificationRow) toEvent() (*model.NotificationEvent, error) {
	event := &model.NotificationEvent{
		ID:               row.NotificationID,
		NotificationType: row.NotificationType,
		Source:           row.Source,
		Priority:         row.Priority,
		Timestamp:        row.Timestamp,
		StoredAt:         row.StoredAt,
		Seq:              row.Seq,
	}
	if row.ReferenceID.Valid {
		event.ReferenceID = row.ReferenceID.String
	}
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &event.Payload); err != nil {
			return nil, errors.Storage("failed to decode payload", err)
		}
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &event.Metadata); err != nil {
			return nil, errors.Storage("failed to decode metadata", err)
		}
	}
	return event, nil
}
