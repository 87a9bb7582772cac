package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motortrade/notification-api/pkg/errors"
)

// Pagination represents pagination metadata
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes page metadata; total_pages is 0 for an empty set.
func NewPagination(total, page, pageSize int) Pagination {
	totalPages := 0
	if total > 0 && pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RespondWithError maps an AppError kind to an HTTP status.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
		switch appErr.Kind {
		case errors.KindValidation, errors.KindInvalidPayload:
			status = http.StatusBadRequest
		case errors.KindUnauthorized:
			status = http.StatusUnauthorized
		case errors.KindAuthUnavailable:
			status = http.StatusServiceUnavailable
		case errors.KindNotFound:
			status = http.StatusNotFound
		case errors.KindUnsupportedType:
			status = http.StatusUnprocessableEntity
		case errors.KindStorage:
			status = http.StatusInternalServerError
			message = "failed to store notification"
		}
	}

	c.JSON(status, ErrorResponse{Status: "error", Message: message})
}
