package bedrock

import (
	"context"
	"errors"
	"net"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
)

type ErrorClass int

const (
	ClassOther ErrorClass = iota
	ClassAccessDenied
	ClassThrottled
	ClassValidation
	ClassTimeout
)

func (c ErrorClass) String() string {
	switch c {
	case ClassAccessDenied:
		return "access_denied"
	case ClassThrottled:
		return "throttled"
	case ClassValidation:
		return "validation"
	case ClassTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// Classify maps an SDK error onto the small set of classes callers branch on.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassOther
	}
	var (
		denied    *types.AccessDeniedException
		throttled *types.ThrottlingException
		invalid   *types.ValidationException
	)
	switch {
	case errors.As(err, &denied):
		return ClassAccessDenied
	case errors.As(err, &throttled):
		return ClassThrottled
	case errors.As(err, &invalid):
		return ClassValidation
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException":
			return ClassAccessDenied
		case "ThrottlingException", "TooManyRequestsException", "ServiceQuotaExceededException":
			return ClassThrottled
		case "ValidationException":
			return ClassValidation
		}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ClassTimeout
	}
	return ClassOther
}
