package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error. The orchestrator switches on the
// kind to decide whether a failure is fatal to the request or only to the
// optional email dispatch.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindAuthUnavailable
	KindNotFound
	KindUnsupportedType
	KindInvalidPayload
	KindMailSendFailed
	KindTemplateNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindAuthUnavailable:
		return "auth_unavailable"
	case KindNotFound:
		return "not_found"
	case KindUnsupportedType:
		return "unsupported_type"
	case KindInvalidPayload:
		return "invalid_payload"
	case KindMailSendFailed:
		return "mail_send_failed"
	case KindTemplateNotFound:
		return "template_not_found"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Error constructors
func Validation(message string, err error) *AppError {
	return New(KindValidation, message, err)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, message, nil)
}

func AuthUnavailable(err error) *AppError {
	return New(KindAuthUnavailable, "authorization service unavailable", err)
}

func NotFound(resource string) *AppError {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource), nil)
}

func UnsupportedType(message string) *AppError {
	return New(KindUnsupportedType, message, nil)
}

func InvalidPayload(message string, err error) *AppError {
	return New(KindInvalidPayload, message, err)
}

func MailSendFailed(err error) *AppError {
	return New(KindMailSendFailed, "failed to send email", err)
}

func TemplateNotFound(name string, err error) *AppError {
	return New(KindTemplateNotFound, fmt.Sprintf("template %s not found", name), err)
}

func Storage(message string, err error) *AppError {
	return New(KindStorage, message, err)
}
