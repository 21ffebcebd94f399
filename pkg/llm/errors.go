package llm

import "errors"

// Common client errors.
var (
	// ErrEmptyResponse indicates the model returned no usable content.
	ErrEmptyResponse = errors.New("the model returned an empty response")
)

// RateLimitError indicates the provider rejected the call for rate limiting.
// It is the only error kind the RetryClient retries.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "rate limit exceeded"
	}
	return e.Message
}

// Is implements errors.Is support for RateLimitError, so wrapped rate-limit
// errors are still recognized.
func (e *RateLimitError) Is(target error) bool {
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a rate limit error with an optional message.
func NewRateLimitError(message ...string) *RateLimitError {
	err := &RateLimitError{}
	if len(message) > 0 {
		err.Message = message[0]
	}
	return err
}

// IsRateLimit reports whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	return errors.Is(err, &RateLimitError{})
}

// EmptyResponseError carries provider detail for an empty response.
type EmptyResponseError struct {
	Message string
}

func (e *EmptyResponseError) Error() string { return e.Message }

// Is implements errors.Is support for EmptyResponseError.
func (e *EmptyResponseError) Is(target error) bool {
	if _, ok := target.(*EmptyResponseError); ok {
		return true
	}
	return target == ErrEmptyResponse
}

// NewEmptyResponseError creates an empty response error.
func NewEmptyResponseError(message string) *EmptyResponseError {
	return &EmptyResponseError{Message: message}
}
