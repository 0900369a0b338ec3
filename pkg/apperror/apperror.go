package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error into the portal's failure taxonomy.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindRateLimited     Kind = "rate_limited"
	KindUpstream        Kind = "upstream"
	KindInternal        Kind = "internal"
)

// Upstream error codes for the image-storage collaborator.
const (
	CodeImageStoreNetwork  = "IMAGE_STORE_NETWORK_ERROR"
	CodeImageStoreRequest  = "IMAGE_STORE_REQUEST_ERROR"
	CodeImageStoreRejected = "IMAGE_STORE_UPLOAD_REJECTED"
	CodeImageStoreConfig   = "IMAGE_STORE_CONFIG_ERROR"
)

type Error struct {
	Kind Kind
	// Code is a stable machine-readable identifier, set for upstream failures.
	Code    string
	Message string
	// Retryable marks upstream failures the caller may safely retry.
	Retryable bool
	// RetryAfterSeconds is set for rate-limited errors.
	RetryAfterSeconds int
	Err               error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func RateLimited(message string, retryAfterSeconds int) *Error {
	return &Error{Kind: KindRateLimited, Message: message, RetryAfterSeconds: retryAfterSeconds}
}

func Upstream(code, message string, retryable bool, err error) *Error {
	return &Error{Kind: KindUpstream, Code: code, Message: message, Retryable: retryable, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// StatusCode maps an error to the HTTP status the API surfaces it with.
func StatusCode(err error) int {
	appErr, ok := As(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindRateLimited:
		return fiber.StatusTooManyRequests
	case KindUpstream:
		if appErr.Code == CodeImageStoreConfig {
			return fiber.StatusInternalServerError
		}
		if appErr.Code == CodeImageStoreNetwork {
			return fiber.StatusServiceUnavailable
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
