package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motortrade/notification-api/internal/dispatch"
	"github.com/motortrade/notification-api/internal/handler"
	"github.com/motortrade/notification-api/internal/model"
	"github.com/motortrade/notification-api/internal/repository"
	notificationService "github.com/motortrade/notification-api/internal/service/notification"
	"github.com/motortrade/notification-api/pkg/errors"
	"github.com/motortrade/notification-api/pkg/httputil"
	"github.com/motortrade/notification-api/pkg/validator"
)

type Handler struct {
	service  notificationService.Service
	validate *validator.Validator
}

func NewHandler(service notificationService.Service, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("", h.CreateNotification)
		notifications.GET("", h.ListNotifications)
		notifications.GET("/:id", h.GetNotification)
		notifications.DELETE("/:id", h.DeleteNotification)
	}
}

// acceptDetails is the merged two-phase outcome: storage is always
// reported, email only when a dispatch was attempted.
type acceptDetails struct {
	Storage      model.StorageReceipt `json:"storage"`
	Email        *dispatch.Outcome    `json:"email,omitempty"`
	EmailWarning string               `json:"email_warning,omitempty"`
}

type acceptResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details acceptDetails `json:"details"`
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req model.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	if err := h.validate.Validate(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	if _, err := model.ParseTimestamp(req.Timestamp); err != nil {
		httputil.RespondWithError(c, errors.Validation("timestamp must be RFC 3339", err))
		return
	}

	result, err := h.service.Accept(c.Request.Context(), req.ToEvent())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, acceptResponse{
		Status:  "success",
		Message: "notification stored",
		Details: acceptDetails{
			Storage:      result.Storage,
			Email:        result.Email,
			EmailWarning: result.EmailWarning,
		},
	})
}

type listResponse struct {
	Notifications []*model.NotificationEvent `json:"notifications"`
	Pagination    httputil.Pagination        `json:"pagination"`
}

func (h *Handler) ListNotifications(c *gin.Context) {
	var query struct {
		Page             int    `form:"page,default=1"`
		PageSize         int    `form:"page_size,default=20"`
		NotificationType string `form:"notification_type"`
		Source           string `form:"source"`
		Priority         string `form:"priority"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	page, err := h.service.List(c.Request.Context(), notificationService.ListParams{
		Filter: repository.Filter{
			NotificationType: query.NotificationType,
			Source:           query.Source,
			Priority:         query.Priority,
		},
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	notifications := page.Notifications
	if notifications == nil {
		notifications = []*model.NotificationEvent{}
	}

	c.JSON(http.StatusOK, listResponse{
		Notifications: notifications,
		Pagination:    httputil.NewPagination(page.Total, page.Page, page.PageSize),
	})
}

func (h *Handler) GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid notification id", err))
		return
	}

	event, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(event))
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid notification id", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, &handler.Response{Status: "success", Message: "notification deleted"})
}
