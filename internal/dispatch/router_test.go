package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motortrade/notification-api/pkg/errors"
)

type orderShape struct {
	OrderID string `mapstructure:"order_id"`
	Status  string `mapstructure:"status"`
}

func newTestRouter(run func(ctx context.Context, shape *orderShape) (*Outcome, error)) *Router {
	r := NewRouter()
	Register[orderShape](r, "order_update", run)
	return r
}

func TestDispatchUnknownType(t *testing.T) {
	r := newTestRouter(func(_ context.Context, _ *orderShape) (*Outcome, error) {
		t.Fatal("handler must not run for an unknown type")
		return nil, nil
	})

	_, err := r.Dispatch(context.Background(), "unknown_x", map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindUnsupportedType))
	// The error names the known types so callers can correct themselves.
	assert.Contains(t, err.Error(), "order_update")
}

func TestDispatchDecodesShape(t *testing.T) {
	var got *orderShape
	r := newTestRouter(func(_ context.Context, shape *orderShape) (*Outcome, error) {
		got = shape
		return &Outcome{Type: "order_update"}, nil
	})

	outcome, err := r.Dispatch(context.Background(), "order_update", map[string]interface{}{
		"order_id": "ORD-1",
		"status":   "confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_update", outcome.Type)
	require.NotNil(t, got)
	assert.Equal(t, "ORD-1", got.OrderID)
	assert.Equal(t, "confirmed", got.Status)
}

func TestDispatchRejectsUnknownFields(t *testing.T) {
	r := newTestRouter(func(_ context.Context, _ *orderShape) (*Outcome, error) {
		t.Fatal("handler must not run for an invalid payload")
		return nil, nil
	})

	_, err := r.Dispatch(context.Background(), "order_update", map[string]interface{}{
		"order_id": "ORD-1",
		"surprise": true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindInvalidPayload))
}

func TestDispatchWeakTyping(t *testing.T) {
	var got *orderShape
	r := newTestRouter(func(_ context.Context, shape *orderShape) (*Outcome, error) {
		got = shape
		return &Outcome{}, nil
	})

	// JSON numbers coerce into string fields.
	_, err := r.Dispatch(context.Background(), "order_update", map[string]interface{}{
		"order_id": 12345,
	})
	require.NoError(t, err)
	assert.Equal(t, "12345", got.OrderID)
}

func TestDispatchPropagatesHandlerError(t *testing.T) {
	r := newTestRouter(func(_ context.Context, _ *orderShape) (*Outcome, error) {
		return nil, errors.MailSendFailed(assert.AnError)
	})

	_, err := r.Dispatch(context.Background(), "order_update", map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindMailSendFailed))
}

func TestTypesSorted(t *testing.T) {
	r := NewRouter()
	Register[orderShape](r, "b_type", func(_ context.Context, _ *orderShape) (*Outcome, error) { return nil, nil })
	Register[orderShape](r, "a_type", func(_ context.Context, _ *orderShape) (*Outcome, error) { return nil, nil })

	assert.Equal(t, []string{"a_type", "b_type"}, r.Types())
}
