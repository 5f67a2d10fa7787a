package domain

import (
	"errors"
	"fmt"
)

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrOwnerNotFound        = errors.New("listing owner not found")
	ErrPermissionDenied     = errors.New("user not authorized to perform this action")
	ErrAddressUnresolvable  = errors.New("address could not be resolved to coordinates")
	ErrProviderUnavailable  = errors.New("geocoding provider unavailable")
	ErrPartialUploadFailure = errors.New("one or more images failed to upload")
	ErrBatchSizeExceeded    = errors.New("image batch exceeds the maximum of 6 images")
	ErrMalformedRecord      = errors.New("stored listing record is malformed")
	ErrCursorShapeMismatch  = errors.New("cursor was issued for a different query shape")
)

// ValidationError reports a caller-input invariant violation. It is never
// retried automatically and is surfaced verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
