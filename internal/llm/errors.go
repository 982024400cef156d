package llm

import "errors"

var (
	// ErrNotConfigured means no API key was supplied.
	ErrNotConfigured = errors.New("llm provider not configured")

	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")

	// ErrAPICallFailed wraps non-2xx responses.
	ErrAPICallFailed = errors.New("llm API call failed")

	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("llm rate limit exceeded")

	// ErrUnavailable is returned on HTTP 503.
	ErrUnavailable = errors.New("llm provider temporarily unavailable")

	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("empty response from llm provider")
)
