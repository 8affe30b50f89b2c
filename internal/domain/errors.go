package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTransportFailure  = errors.New("transport failure")
	ErrServiceFailure    = errors.New("service failure")
	ErrMalformedResponse = errors.New("malformed response")
)

// ServiceError is returned when the answering service replied with a
// non-success status.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service failure: status %d", e.StatusCode)
	}
	return fmt.Sprintf("service failure: status %d: %s", e.StatusCode, e.Detail)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceFailure
}

type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureTransport         FailureKind = "transport_failure"
	FailureService           FailureKind = "service_failure"
	FailureMalformedResponse FailureKind = "malformed_response"
)

// ClassifyFailure maps an error returned by the answering service onto the
// failure taxonomy. Errors that match none of the sentinels are treated as
// transport failures since the request outcome is unknown.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformedResponse
	case errors.Is(err, ErrServiceFailure):
		return FailureService
	default:
		return FailureTransport
	}
}

func (k FailureKind) UserMessage() string {
	switch k {
	case FailureNone:
		return ""
	case FailureService:
		return "The assistant service could not answer right now. Please try again."
	case FailureMalformedResponse:
		return "The assistant sent a response that could not be read. Please try again."
	default:
		return "Could not reach the assistant. Check your connection and try again."
	}
}
