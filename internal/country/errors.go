package country

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the API has no country matching the query.
	ErrNotFound = errors.New("country not found")

	ErrEmptyQuery = errors.New("empty country name")
)

// FormatError reports a record that violates the upstream contract: a field
// the API always sends is missing or unusable.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed country record: %s: %s", e.Field, e.Reason)
}

// NetworkError wraps a transport failure or an unexpected HTTP status.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("country api %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("country api %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
