package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/motortrade/notification-api/pkg/errors"
)

// Outcome is the success payload an email handler returns: what was sent,
// to which vehicle, and the type-specific correlation ids.
type Outcome struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

type entry struct {
	decode func(payload map[string]interface{}) (interface{}, error)
	run    func(ctx context.Context, shape interface{}) (*Outcome, error)
}

// Router maps a notification type string to its handler and expected
// payload shape. The table is populated at startup and immutable
// afterwards; Dispatch only reads it.
type Router struct {
	entries map[string]entry
}

func NewRouter() *Router {
	return &Router{entries: make(map[string]entry)}
}

// Register binds a notification type to a handler over payload shape T.
// Adding a new type is one Register call; the dispatch algorithm never
// changes.
func Register[T any](r *Router, notificationType string, run func(ctx context.Context, shape *T) (*Outcome, error)) {
	r.entries[notificationType] = entry{
		decode: func(payload map[string]interface{}) (interface{}, error) {
			var shape T
			if err := strictDecode(payload, &shape); err != nil {
				return nil, err
			}
			return &shape, nil
		},
		run: func(ctx context.Context, shape interface{}) (*Outcome, error) {
			return run(ctx, shape.(*T))
		},
	}
}

// Dispatch converts payload into the shape registered for the type and
// invokes the handler. Handler errors propagate unchanged; the caller
// decides whether they are fatal.
func (r *Router) Dispatch(ctx context.Context, notificationType string, payload map[string]interface{}) (*Outcome, error) {
	e, ok := r.entries[notificationType]
	if !ok {
		return nil, errors.UnsupportedType(fmt.Sprintf(
			"no email handler for notification type %q (known types: %s)",
			notificationType, strings.Join(r.Types(), ", "),
		))
	}

	shape, err := e.decode(payload)
	if err != nil {
		return nil, errors.InvalidPayload(
			fmt.Sprintf("payload does not match the %s schema", notificationType), err)
	}

	return e.run(ctx, shape)
}

// Types lists the registered notification types, sorted.
func (r *Router) Types() []string {
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// strictDecode rejects payload keys the shape does not declare, so a typo
// surfaces as an invalid payload instead of a silently dropped field.
// Weak typing lets JSON numbers fill string fields like car_year.
func strictDecode(payload map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(payload)
}
