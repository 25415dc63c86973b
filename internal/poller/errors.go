package poller

import "fmt"

// FetchError indicates a failure to retrieve widget data: either the
// transport failed or the endpoint answered with a non-success HTTP status.
//
// FetchError is never fatal; the scheduler records it on the widget's live
// cell and retries on the next interval tick.
type FetchError struct {
	// URL is the endpoint that failed.
	URL string

	// StatusCode is the non-2xx HTTP status, or zero for transport failures.
	StatusCode int

	// Err is the underlying transport error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying transport error.
func (e *FetchError) Unwrap() error { return e.Err }
