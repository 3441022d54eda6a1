package reco

import (
	"errors"
	"fmt"
)

// Error taxonomy of the recommendation core. Callers branch with errors.Is;
// the HTTP layer maps each class to a status code.
var (
	// ErrInvalidPersona: persona id is not in the known persona set.
	ErrInvalidPersona = errors.New("invalid persona")

	// ErrPreconditionFailed: an operation was attempted before a required
	// prior step (e.g. TPO before persona). Wrapped with the missing step.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrNoActiveCategory: feedback or selection after all five categories
	// completed.
	ErrNoActiveCategory = errors.New("no active category")

	// ErrCategoryMismatch: feedback targeted a category other than the
	// active one. User-correctable, unlike ErrNoActiveCategory.
	ErrCategoryMismatch = errors.New("category mismatch")

	// ErrSessionNotFound: unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrProductNotFound: selected id absent from both the current and the
	// previous cache of the active category.
	ErrProductNotFound = errors.New("product not found")

	// ErrCapacityExceeded: session registry full even after an idle sweep.
	ErrCapacityExceeded = errors.New("session capacity exceeded")
)

// CollaboratorError reports that an external collaborator (embedding
// service, similarity index, language model) errored or timed out. It is
// deliberately distinct from an empty result: zero candidates after
// filtering is a value, a collaborator that did not respond is this error.
type CollaboratorError struct {
	Op      string // "embed", "similarity_search", "parse_situation", ...
	Timeout bool
	Err     error
}

func (e *CollaboratorError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("collaborator %s timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("collaborator %s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// AsCollaborator extracts a CollaboratorError from an error chain.
func AsCollaborator(err error) (*CollaboratorError, bool) {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
