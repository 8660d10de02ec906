// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/venue-engine/pkg/types"
)

// ErrBatchTooLarge is returned when more identifiers are passed to
// FetchSources than one lookup may carry.
var ErrBatchTooLarge = fmt.Errorf("source batch exceeds %d identifiers", MaxBatchIDs)

// StatusError reports a non-200 answer from OpenAlex.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("OpenAlex %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("OpenAlex %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// DiscoveryFailure means the works search could not be completed. It is
// never retried here; the caller decides whether to run the query again.
type DiscoveryFailure struct {
	Query types.SearchQuery
	Err   error
}

func (e *DiscoveryFailure) Error() string {
	return fmt.Sprintf("discovering works for %q: %v", e.Query.Text, e.Err)
}

func (e *DiscoveryFailure) Unwrap() error { return e.Err }

// MetadataFailure means the batch sources lookup failed as a whole.
// Identifiers merely missing from a successful response are not failures.
type MetadataFailure struct {
	IDs []string
	Err error
}

func (e *MetadataFailure) Error() string {
	return fmt.Sprintf("fetching metadata for %d journal(s) [%s]: %v",
		len(e.IDs), strings.Join(e.IDs, ","), e.Err)
}

func (e *MetadataFailure) Unwrap() error { return e.Err }

// IsUnavailable reports whether err is an upstream failure that callers
// should present as "journal search temporarily unavailable".
func IsUnavailable(err error) bool {
	var df *DiscoveryFailure
	var mf *MetadataFailure
	return errors.As(err, &df) || errors.As(err, &mf)
}
