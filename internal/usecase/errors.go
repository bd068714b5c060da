package usecase

import "errors"

// Failure kinds surfaced by the listing workflows. Callers classify with
// errors.Is; the kinds are never collapsed into a generic failure.
var (
	// ErrValidation means a required field was missing or out of range.
	// Nothing was sent to the remote stores.
	ErrValidation = errors.New("listing validation failed")

	ErrListingNotFound = errors.New("listing not found")

	// ErrCreateFailed means creation did not complete. Either the initial
	// insert failed (no side effects), or a later step failed and the
	// compensating delete removed the listing again.
	ErrCreateFailed = errors.New("listing create failed")

	// ErrImageBatchFailed means one or more uploads, or the batched
	// metadata insert, failed after the listing row existed.
	ErrImageBatchFailed = errors.New("image batch failed")

	// ErrCompensationFailed means the compensating delete itself failed
	// and an orphaned listing row remains. Reported distinctly from
	// ErrCreateFailed, never silently merged.
	ErrCompensationFailed = errors.New("compensating delete failed, listing row left behind")

	ErrUpdateFailed = errors.New("listing update failed")

	// ErrImageDeleteFailed covers a single existing-image deletion. It is
	// reported per image and does not abort sibling deletions or the rest
	// of the update.
	ErrImageDeleteFailed = errors.New("stored image delete failed")
)
