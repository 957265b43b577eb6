package weather

import (
	"errors"
	"fmt"
)

// Kind is a stable label for a weather failure, used in user messages and metrics.
type Kind string

// The weather taxonomy is closed; every failure FetchWeather reports as *Error has one
// of these kinds.
const (
	KindAuth           Kind = "auth_error"
	KindNotFound       Kind = "not_found"
	KindRateLimited    Kind = "rate_limited"
	KindProvider       Kind = "provider_error"
	KindTimeout        Kind = "timeout"
	KindConnection     Kind = "connection_failed"
	KindIncompleteData Kind = "incomplete_data"
)

// Sentinels for errors.Is checks against an *Error of the matching kind.
var (
	ErrAuth           = errors.New("invalid API key")
	ErrNotFound       = errors.New("city not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrProvider       = errors.New("provider error")
	ErrTimeout        = errors.New("request timed out")
	ErrConnection     = errors.New("connection failed")
	ErrIncompleteData = errors.New("incomplete weather data")
)

var sentinels = map[Kind]error{
	KindAuth:           ErrAuth,
	KindNotFound:       ErrNotFound,
	KindRateLimited:    ErrRateLimited,
	KindProvider:       ErrProvider,
	KindTimeout:        ErrTimeout,
	KindConnection:     ErrConnection,
	KindIncompleteData: ErrIncompleteData,
}

// Error is a weather lookup failure.
type Error struct {
	Kind       Kind
	City       string
	StatusCode int   // set for KindProvider
	Err        error // underlying cause, may be nil
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAuth:
		return "invalid API key, please check your OpenWeatherMap API key"
	case KindNotFound:
		return fmt.Sprintf("city '%s' not found, please check the city name", e.City)
	case KindRateLimited:
		return "API rate limit exceeded, please try again later"
	case KindProvider:
		return fmt.Sprintf("API request failed with status code %d", e.StatusCode)
	case KindTimeout:
		return "request timed out, please check your internet connection"
	case KindConnection:
		return "connection error, please check your internet connection"
	case KindIncompleteData:
		if e.Err != nil {
			return fmt.Sprintf("incomplete weather data received from API: %v", e.Err)
		}
		return "incomplete weather data received from API"
	default:
		return fmt.Sprintf("weather lookup failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}
