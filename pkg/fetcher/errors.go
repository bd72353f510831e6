package fetcher

import "fmt"

// NetworkError reports a failed fetch. StatusCode is 0 when no response
// was received.
type NetworkError struct {
	URL        string
	StatusCode int
	Reason     string
	Wrapped    error
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("network error for URL '%s': %s: %v", e.URL, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("network error for URL '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}
