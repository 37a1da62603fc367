package llm

import "strconv"

// StatusError wraps a non-2xx HTTP response from the provider so
// callers (notably pkg/queue's Retryable) can distinguish a transient
// 5xx from a permanent 4xx failure.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "llm provider returned status " + strconv.Itoa(e.Code) + ": " + e.Body
}
