// Package aierr is the error taxonomy shared by the model-facing components.
//
// Each family is a struct carrying a Kind and the underlying cause. Every kind
// also has a sentinel so callers can write errors.Is(err, aierr.ErrThrottled)
// without unpacking the struct.
package aierr

import (
	"errors"
	"fmt"
)

type ModelKind int

const (
	AccessDenied ModelKind = iota + 1
	Throttled
	Unavailable
	ContentBlocked
)

func (k ModelKind) String() string {
	switch k {
	case AccessDenied:
		return "access_denied"
	case Throttled:
		return "throttled"
	case Unavailable:
		return "unavailable"
	case ContentBlocked:
		return "content_blocked"
	default:
		return "unknown"
	}
}

type AnalysisKind int

const (
	UnsupportedFormat AnalysisKind = iota + 1
	ServiceFailure
	MalformedResponse
)

func (k AnalysisKind) String() string {
	switch k {
	case UnsupportedFormat:
		return "unsupported_format"
	case ServiceFailure:
		return "service_failure"
	case MalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

type ArgumentKind int

const (
	UnsupportedSize ArgumentKind = iota + 1
	InvalidParameters
)

func (k ArgumentKind) String() string {
	switch k {
	case UnsupportedSize:
		return "unsupported_size"
	case InvalidParameters:
		return "invalid_parameters"
	default:
		return "unknown"
	}
}

type ServiceKind int

const (
	NoImageReturned ServiceKind = iota + 1
	ServiceUnavailable
)

func (k ServiceKind) String() string {
	switch k {
	case NoImageReturned:
		return "no_image_returned"
	case ServiceUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

var (
	ErrAccessDenied   = errors.New("model access denied")
	ErrThrottled      = errors.New("model throttled")
	ErrUnavailable    = errors.New("model unavailable")
	ErrContentBlocked = errors.New("blocked by content policy")

	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrServiceFailure    = errors.New("analysis service failure")
	ErrMalformedResponse = errors.New("malformed analysis response")

	ErrUnsupportedSize   = errors.New("unsupported image size")
	ErrInvalidParameters = errors.New("invalid generation parameters")

	ErrNoImageReturned    = errors.New("no image returned")
	ErrServiceUnavailable = errors.New("image service unavailable")
)

type ModelError struct {
	Kind  ModelKind
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	msg := e.sentinel().Error()
	if e.Model != "" {
		msg = fmt.Sprintf("%s (model=%s)", msg, e.Model)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error { return e.Err }

func (e *ModelError) Is(target error) bool { return target == e.sentinel() }

// Retryable reports whether the same request might succeed later.
// A content-policy rejection never will.
func (e *ModelError) Retryable() bool { return e.Kind != ContentBlocked }

func (e *ModelError) sentinel() error {
	switch e.Kind {
	case AccessDenied:
		return ErrAccessDenied
	case Throttled:
		return ErrThrottled
	case ContentBlocked:
		return ErrContentBlocked
	default:
		return ErrUnavailable
	}
}

type AnalysisError struct {
	Kind AnalysisKind
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return e.sentinel().Error() + ": " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func (e *AnalysisError) Is(target error) bool { return target == e.sentinel() }

func (e *AnalysisError) sentinel() error {
	switch e.Kind {
	case UnsupportedFormat:
		return ErrUnsupportedFormat
	case MalformedResponse:
		return ErrMalformedResponse
	default:
		return ErrServiceFailure
	}
}

type ArgumentError struct {
	Kind ArgumentKind
	Err  error
}

func (e *ArgumentError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return e.sentinel().Error() + ": " + e.Err.Error()
}

func (e *ArgumentError) Unwrap() error { return e.Err }

func (e *ArgumentError) Is(target error) bool { return target == e.sentinel() }

func (e *ArgumentError) sentinel() error {
	if e.Kind == UnsupportedSize {
		return ErrUnsupportedSize
	}
	return ErrInvalidParameters
}

type ServiceError struct {
	Kind ServiceKind
	Err  error
	// Keys lists the top-level response keys when no image was found.
	Keys []string
}

func (e *ServiceError) Error() string {
	msg := e.sentinel().Error()
	if len(e.Keys) > 0 {
		msg = fmt.Sprintf("%s (response keys: %v)", msg, e.Keys)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Is(target error) bool { return target == e.sentinel() }

func (e *ServiceError) sentinel() error {
	if e.Kind == NoImageReturned {
		return ErrNoImageReturned
	}
	return ErrServiceUnavailable
}

// Constructors keep call sites short.

func Model(kind ModelKind, model string, err error) error {
	return &ModelError{Kind: kind, Model: model, Err: err}
}

func Analysis(kind AnalysisKind, format string, args ...any) error {
	return &AnalysisError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Argument(kind ArgumentKind, format string, args ...any) error {
	return &ArgumentError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Service(kind ServiceKind, err error) error {
	return &ServiceError{Kind: kind, Err: err}
}
