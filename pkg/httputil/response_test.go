package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/motortrade/notification-api/pkg/errors"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		page      int
		pageSize  int
		wantPages int
	}{
		{"empty", 0, 1, 20, 0},
		{"exact fit", 40, 1, 20, 2},
		{"partial last page", 41, 1, 20, 3},
		{"single item", 1, 1, 20, 1},
		{"page size one", 5, 3, 1, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.total, tc.page, tc.pageSize)
			assert.Equal(t, tc.total, p.Total)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.pageSize, p.PageSize)
			assert.Equal(t, tc.wantPages, p.TotalPages)
		})
	}
}

func TestRespondWithError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", errors.Validation("bad input", nil), http.StatusBadRequest},
		{"invalid payload", errors.InvalidPayload("missing field", nil), http.StatusBadRequest},
		{"unauthorized", errors.Unauthorized("token expired"), http.StatusUnauthorized},
		{"auth unavailable", errors.AuthUnavailable(nil), http.StatusServiceUnavailable},
		{"not found", errors.NotFound("notification"), http.StatusNotFound},
		{"unsupported type", errors.UnsupportedType("no email handler for notification type"), http.StatusUnprocessableEntity},
		{"storage", errors.Storage("failed to store notification", assert.AnError), http.StatusInternalServerError},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondWithError(c, tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestRespondWithStorageErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, errors.Storage("failed to store notification", assert.AnError))
	assert.Contains(t, w.Body.String(), "failed to store notification")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
