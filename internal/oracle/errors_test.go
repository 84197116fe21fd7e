package oracle

import (
	"errors"
	"strings"
	"testing"
)

// Every type in the hierarchy must satisfy error through the embedded base.
var (
	_ error = (*OracleError)(nil)
	_ error = (*ProviderError)(nil)
	_ error = (*AuthenticationError)(nil)
	_ error = (*AccessDeniedError)(nil)
	_ error = (*NotFoundError)(nil)
	_ error = (*InvalidRequestError)(nil)
	_ error = (*RateLimitError)(nil)
	_ error = (*ServerError)(nil)
	_ error = (*ContextLengthError)(nil)
	_ error = (*RequestTimeoutError)(nil)
	_ error = (*AbortError)(nil)
	_ error = (*ConfigurationError)(nil)
)

func TestErrorHierarchyMessages(t *testing.T) {
	var err error = &ConfigurationError{OracleError: OracleError{Message: "no provider configured"}}
	if err.Error() != "no provider configured" {
		t.Errorf("configuration error message = %q", err.Error())
	}

	err = &RateLimitError{ProviderError: ProviderError{
		OracleError: OracleError{Message: "slow down"},
		Provider:    "openai",
		StatusCode:  429,
		Retryable:   true,
	}}
	got := err.Error()
	for _, want := range []string{"[openai]", "slow down", "status=429", "retryable=true"} {
		if !strings.Contains(got, want) {
			t.Errorf("provider error message %q missing %q", got, want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"authentication", &AuthenticationError{}, false},
		{"access denied", &AccessDeniedError{}, false},
		{"not found", &NotFoundError{}, false},
		{"invalid request", &InvalidRequestError{}, false},
		{"context length", &ContextLengthError{}, false},
		{"configuration", &ConfigurationError{}, false},
		{"abort", &AbortError{}, false},
		{"rate limit", &RateLimitError{}, true},
		{"server", &ServerError{}, true},
		{"request timeout", &RequestTimeoutError{}, true},
		{"unknown", errors.New("mystery"), true},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsUnavailable(t *testing.T) {
	if !IsUnavailable(&AuthenticationError{}) {
		t.Error("authentication error should be unavailable")
	}
	if !IsUnavailable(&ConfigurationError{}) {
		t.Error("configuration error should be unavailable")
	}
	if IsUnavailable(&ServerError{}) {
		t.Error("server error is transient, not unavailable")
	}
	if IsUnavailable(nil) {
		t.Error("nil should not be unavailable")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &OracleError{Message: "wrapper", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "wrapper: underlying" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
