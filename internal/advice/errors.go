package advice

import (
	"errors"
	"fmt"
)

// Kind is a stable label for an advice failure.
type Kind string

// The advice taxonomy is closed and disjoint from the weather one.
const (
	KindAuth          Kind = "auth_error"
	KindRateLimited   Kind = "rate_limited"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindEmptyResponse Kind = "empty_response"
	KindProvider      Kind = "provider_error"
)

var (
	ErrAuth          = errors.New("invalid API key")
	ErrRateLimited   = errors.New("rate limited")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrEmptyResponse = errors.New("empty response")
	ErrProvider      = errors.New("provider error")
)

var sentinels = map[Kind]error{
	KindAuth:          ErrAuth,
	KindRateLimited:   ErrRateLimited,
	KindQuotaExceeded: ErrQuotaExceeded,
	KindEmptyResponse: ErrEmptyResponse,
	KindProvider:      ErrProvider,
}

// Error is an advice generation failure. Message carries the provider's own
// wording for KindProvider.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuth:
		return "invalid OpenAI API key, please check your API key"
	case KindRateLimited:
		return "OpenAI API rate limit exceeded, please try again later"
	case KindQuotaExceeded:
		return "OpenAI API quota exceeded, please check your account"
	case KindEmptyResponse:
		return "received empty response from LLM"
	default:
		return fmt.Sprintf("failed to get LLM recommendation: %s", e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
