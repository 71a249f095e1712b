package wanikani

import (
	"errors"
	"fmt"
)

// Aggregation failure conditions. They stay distinguishable with errors.Is
// so the caller can show a condition-specific message; collapsing them into
// one generic error loses information.
var (
	// ErrEndpointDown means the identifier-resolution endpoint answered
	// with a 5xx or timed out. The service is degraded, not the request.
	ErrEndpointDown = errors.New("wanikani: endpoint unavailable")

	// ErrNoActivity means zero subjects were touched in the window.
	ErrNoActivity = errors.New("wanikani: no recent reviews found")

	// ErrNoVocabulary means subjects were touched but none were
	// vocabulary-kind (only kanji or radicals, for example).
	ErrNoVocabulary = errors.New("wanikani: no vocabulary among those reviews")

	// ErrMissingToken means no API token was configured. The cmd layer
	// decides whether this is fatal; the library never exits the process.
	ErrMissingToken = errors.New("wanikani: API token required")
)

// StatusError is an unrecoverable HTTP failure: a 4xx means the request
// itself is malformed or the credential is bad, and retrying the same call
// cannot help. 5xx statuses are classified as ErrEndpointDown instead.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wanikani: request failed with status %d: GET %s: %s", e.StatusCode, e.URL, e.Body)
}
