package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/motortrade/notification-api/internal/dispatch"
	"github.com/motortrade/notification-api/internal/model"
	"github.com/motortrade/notification-api/internal/repository"
	"github.com/motortrade/notification-api/pkg/errors"
	"github.com/motortrade/notification-api/pkg/messaging"
	"github.com/motortrade/notification-api/pkg/metrics"
)

const acceptedChannel = "notifications.accepted"

// AcceptResult merges the two phases of Accept: the storage receipt is
// always present; Email and EmailWarning are mutually exclusive and only
// set when a dispatch was attempted.
type AcceptResult struct {
	Storage      model.StorageReceipt
	Email        *dispatch.Outcome
	EmailWarning string
}

type ListParams struct {
	Filter   repository.Filter
	Page     int
	PageSize int
}

type Page struct {
	Notifications []*model.NotificationEvent
	Total         int
	Page          int
	PageSize      int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service interface {
	Accept(ctx context.Context, event *model.NotificationEvent) (*AcceptResult, error)
	Get(ctx context.Context, id uuid.UUID) (*model.NotificationEvent, error)
	List(ctx context.Context, params ListParams) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    repository.NotificationRepository
	router  *dispatch.Router
	broker  messaging.Broker
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewService builds the ingestion orchestrator. broker may be nil when
// event fanout is disabled.
func NewService(repo repository.NotificationRepository, router *dispatch.Router, broker messaging.Broker, logger zerolog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:    repo,
		router:  router,
		broker:  broker,
		logger:  logger,
		metrics: m,
	}
}

// Accept stores the event, then attempts email dispatch as a best-effort
// secondary action. Storage failure fails the request; nothing that
// happens after the insert can invalidate the stored notification.
func (s *service) Accept(ctx context.Context, event *model.NotificationEvent) (*AcceptResult, error) {
	if err := s.repo.Create(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.StorageFailures.Inc()
		}
		s.logger.Error().Err(err).
			Str("notification_type", event.NotificationType).
			Str("source", event.Source).
			Msg("failed to store notification")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.NotificationsStored.WithLabelValues(event.NotificationType, event.Priority).Inc()
	}

	result := &AcceptResult{
		Storage: model.StorageReceipt{
			NotificationID:   event.ID,
			NotificationType: event.NotificationType,
			Source:           event.Source,
			StoredAt:         event.StoredAt,
		},
	}

	outcome, err := s.safeDispatch(ctx, event)
	if err != nil {
		result.EmailWarning = fmt.Sprintf("notification stored but email not sent: %s", err.Error())
		s.observeDispatch(event.NotificationType, errors.KindOf(err).String())
		s.logger.Warn().Err(err).
			Str("notification_id", event.ID.String()).
			Str("notification_type", event.NotificationType).
			Msg("email dispatch failed")
	} else {
		result.Email = outcome
		s.observeDispatch(event.NotificationType, "sent")
	}

	s.publishAccepted(ctx, event)

	return result, nil
}

// safeDispatch routes the event to its email handler. A panicking handler
// must not take down the request after the row is already durable, so it
// is converted into an error here.
func (s *service) safeDispatch(ctx context.Context, event *model.NotificationEvent) (outcome *dispatch.Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			outcome = nil
			err = fmt.Errorf("dispatch panicked: %v", p)
		}
	}()
	return s.router.Dispatch(ctx, event.NotificationType, event.Payload)
}

// publishAccepted fans out the accepted event over the broker. Failures
// are counted and logged, never surfaced.
func (s *service) publishAccepted(ctx context.Context, event *model.NotificationEvent) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, acceptedChannel, event); err != nil {
		if s.metrics != nil {
			s.metrics.BrokerPublishFailures.Inc()
		}
		s.logger.Warn().Err(err).
			Str("notification_id", event.ID.String()).
			Msg("failed to publish accepted event")
	}
}

func (s *service) observeDispatch(notificationType, outcome string) {
	if s.metrics != nil {
		s.metrics.DispatchOutcomes.WithLabelValues(notificationType, outcome).Inc()
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.NotificationEvent, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, params ListParams) (*Page, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := s.repo.Count(ctx, params.Filter)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	events, err := s.repo.List(ctx, params.Filter, pageSize, offset)
	if err != nil {
		return nil, err
	}

	return &Page{
		Notifications: events,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
