package advice

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"quota", &Error{Kind: KindQuotaExceeded}, KindQuotaExceeded},
		{"wrapped empty", fmt.Errorf("advice: %w", &Error{Kind: KindEmptyResponse}), KindEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesOnlyOwnSentinel(t *testing.T) {
	err := error(&Error{Kind: KindQuotaExceeded})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Error("errors.Is(quota, ErrQuotaExceeded) = false, want true")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Error("errors.Is(quota, ErrRateLimited) = true, want false")
	}
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindAuth}, "invalid OpenAI API key, please check your API key"},
		{&Error{Kind: KindRateLimited}, "OpenAI API rate limit exceeded, please try again later"},
		{&Error{Kind: KindQuotaExceeded}, "OpenAI API quota exceeded, please check your account"},
		{&Error{Kind: KindEmptyResponse}, "received empty response from LLM"},
		{&Error{Kind: KindProvider, Message: "boom"}, "failed to get LLM recommendation: boom"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.err.Kind, got, tt.want)
		}
	}
}
