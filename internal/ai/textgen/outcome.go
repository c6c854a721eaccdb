package textgen

import (
	"errors"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
)

// Outcome separates a policy rejection from a transport failure so the two
// cannot be handled alike by accident.
type Outcome int

const (
	Success Outcome = iota
	PolicyRejected
	TransportFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case PolicyRejected:
		return "policy_rejected"
	default:
		return "transport_failure"
	}
}

// Classify reports which outcome an Invoke error represents. A nil error is Success.
func Classify(err error) Outcome {
	if err == nil {
		return Success
	}
	if errors.Is(err, aierr.ErrContentBlocked) {
		return PolicyRejected
	}
	return TransportFailure
}
