package oracle

import "fmt"

// OracleError is the base error type for all oracle errors.
type OracleError struct {
	Message string
	Cause   error
}

func (e *OracleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *OracleError) Unwrap() error {
	return e.Cause
}

// ProviderError represents an error returned by a provider backend.
type ProviderError struct {
	OracleError
	Provider   string
	StatusCode int
	Retryable  bool
	RetryAfter *float64
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("[%s] %s (status=%d, retryable=%v)", e.Provider, e.Message, e.StatusCode, e.Retryable)
}

// Concrete provider error types.

type AuthenticationError struct{ ProviderError }
type AccessDeniedError struct{ ProviderError }
type NotFoundError struct{ ProviderError }
type InvalidRequestError struct{ ProviderError }
type RateLimitError struct{ ProviderError }
type ServerError struct{ ProviderError }
type ContextLengthError struct{ ProviderError }

// Non-provider errors.

type RequestTimeoutError struct{ OracleError }
type AbortError struct{ OracleError }
type ConfigurationError struct{ OracleError }

// IsRetryable returns true if the error is safe to retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch e := err.(type) {
	case *ProviderError:
		return e.Retryable
	case *AuthenticationError, *AccessDeniedError, *NotFoundError,
		*InvalidRequestError, *ContextLengthError, *ConfigurationError:
		return false
	case *RateLimitError, *ServerError, *RequestTimeoutError:
		return true
	case *AbortError:
		return false
	default:
		// Unknown errors default to retryable.
		return true
	}
}

// IsUnavailable reports whether the error means the oracle cannot be reached
// at all (missing or rejected credentials, no provider configured). These are
// surfaced once to the user and never retried.
func IsUnavailable(err error) bool {
	switch err.(type) {
	case *AuthenticationError, *AccessDeniedError, *ConfigurationError:
		return true
	default:
		return false
	}
}
