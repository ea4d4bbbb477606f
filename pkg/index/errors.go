package index

import (
	"errors"
	"fmt"
)

// Kinds of upstream documents, used in errors and metric labels.
const (
	KindRepositories = "repos"
	KindListing      = "listing"
	KindSource       = "source"
)

// ErrInvalidBaseURL is returned by NewClient for unusable base URLs
var ErrInvalidBaseURL = errors.New("invalid index base URL")

// ErrBodyTooLarge is wrapped by a FetchError when a response exceeds the
// client's body size limit
var ErrBodyTooLarge = errors.New("response body too large")

// FetchError describes a failed request to the index
type FetchError struct {
	Kind       string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s %s: unexpected status %d", e.Kind, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
