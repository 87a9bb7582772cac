package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motortrade/notification-api/internal/dispatch"
	"github.com/motortrade/notification-api/internal/model"
	notificationService "github.com/motortrade/notification-api/internal/service/notification"
	"github.com/motortrade/notification-api/pkg/errors"
	"github.com/motortrade/notification-api/pkg/validator"
)

type stubService struct {
	acceptResult *notificationService.AcceptResult
	acceptErr    error
	lastEvent    *model.NotificationEvent
	page         *notificationService.Page
	getEvent     *model.NotificationEvent
	deleteErr    error
}

func (s *stubService) Accept(_ context.Context, event *model.NotificationEvent) (*notificationService.AcceptResult, error) {
	s.lastEvent = event
	return s.acceptResult, s.acceptErr
}

func (s *stubService) Get(_ context.Context, _ uuid.UUID) (*model.NotificationEvent, error) {
	if s.getEvent == nil {
		return nil, errors.NotFound("notification")
	}
	return s.getEvent, nil
}

func (s *stubService) List(_ context.Context, _ notificationService.ListParams) (*notificationService.Page, error) {
	return s.page, nil
}

func (s *stubService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func newTestRouter(svc notificationService.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(svc, validator.New()).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func acceptedResult() *notificationService.AcceptResult {
	return &notificationService.AcceptResult{
		Storage: model.StorageReceipt{
			NotificationID:   uuid.New(),
			NotificationType: "purchase_status",
			Source:           "svc",
			StoredAt:         time.Now().UTC(),
		},
		Email: &dispatch.Outcome{
			Type:    "purchase_status",
			Message: "Purchase status email sent to a@b.com",
			Details: map[string]interface{}{"car": "Toyota Corolla"},
		},
	}
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"notification_type": "purchase_status",
		"source":            "svc",
		"payload": map[string]interface{}{
			"to_email":      "a@b.com",
			"customer_name": "A",
			"car_make":      "Toyota",
			"car_model":     "Corolla",
			"new_status":    "LC Opened",
		},
	}
}

func TestCreateNotificationSuccess(t *testing.T) {
	svc := &stubService{acceptResult: acceptedResult()}
	engine := newTestRouter(svc)

	w := postJSON(t, engine, "/api/v1/notifications", validBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Status  string `json:"status"`
		Details struct {
			Storage struct {
				NotificationID string `json:"notification_id"`
			} `json:"storage"`
			Email *struct {
				Details map[string]interface{} `json:"details"`
			} `json:"email"`
			EmailWarning string `json:"email_warning"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.Details.Storage.NotificationID)
	require.NotNil(t, resp.Details.Email)
	assert.Equal(t, "Toyota Corolla", resp.Details.Email.Details["car"])
	assert.Empty(t, resp.Details.EmailWarning)

	// Priority defaults at the boundary.
	require.NotNil(t, svc.lastEvent)
	assert.Equal(t, model.PriorityNormal, svc.lastEvent.Priority)
}

func TestCreateNotificationWarning(t *testing.T) {
	result := acceptedResult()
	result.Email = nil
	result.EmailWarning = "notification stored but email not sent: no email handler for notification type \"unknown_x\""
	engine := newTestRouter(&stubService{acceptResult: result})

	body := validBody()
	body["notification_type"] = "unknown_x"

	w := postJSON(t, engine, "/api/v1/notifications", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "email_warning")
	assert.NotContains(t, w.Body.String(), `"email":`)
}

func TestCreateNotificationValidation(t *testing.T) {
	engine := newTestRouter(&stubService{acceptResult: acceptedResult()})

	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing type", func(b map[string]interface{}) { delete(b, "notification_type") }},
		{"missing source", func(b map[string]interface{}) { delete(b, "source") }},
		{"missing payload", func(b map[string]interface{}) { delete(b, "payload") }},
		{"priority low rejected", func(b map[string]interface{}) { b["priority"] = "low" }},
		{"bad timestamp", func(b map[string]interface{}) { b["timestamp"] = "yesterday" }},
		{"long reference id", func(b map[string]interface{}) {
			ref := make([]byte, 201)
			for i := range ref {
				ref[i] = 'x'
			}
			b["reference_id"] = string(ref)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validBody()
			tc.mutate(body)
			w := postJSON(t, engine, "/api/v1/notifications", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCreateNotificationStorageFailure(t *testing.T) {
	engine := newTestRouter(&stubService{acceptErr: errors.Storage("failed to store notification", assert.AnError)})

	w := postJSON(t, engine, "/api/v1/notifications", validBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListNotifications(t *testing.T) {
	events := []*model.NotificationEvent{
		{ID: uuid.New(), NotificationType: "purchase_status", Source: "svc", Priority: "normal"},
		{ID: uuid.New(), NotificationType: "shipping_status", Source: "svc", Priority: "high"},
	}
	engine := newTestRouter(&stubService{page: &notificationService.Page{
		Notifications: events,
		Total:         42,
		Page:          2,
		PageSize:      20,
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?page=2&page_size=20", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []json.RawMessage `json:"notifications"`
		Pagination    struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			PageSize   int `json:"page_size"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, 42, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestListNotificationsEmpty(t *testing.T) {
	engine := newTestRouter(&stubService{page: &notificationService.Page{Page: 1, PageSize: 20}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Body.String(), `"notifications":[]`)
	assert.Contains(t, w.Body.String(), `"total_pages":0`)
}

func TestGetNotification(t *testing.T) {
	event := &model.NotificationEvent{ID: uuid.New(), NotificationType: "purchase_status", Source: "svc"}
	engine := newTestRouter(&stubService{getEvent: event})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/"+event.ID.String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), event.ID.String())
}

func TestGetNotificationNotFound(t *testing.T) {
	engine := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNotificationBadID(t *testing.T) {
	engine := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/not-a-uuid", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteNotification(t *testing.T) {
	engine := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
