package contest

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel error kinds surfaced by the contest engine. Handlers map
// these to HTTP status codes; storage-layer error text never leaks
// past this package unwrapped.
var (
	// ErrValidation - malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound - referenced contest or contestant is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden - caller does not own the contest.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState - operation not legal in the current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrDuplicateVote - this voter key already voted for this contestant.
	ErrDuplicateVote = errors.New("duplicate vote")
	// ErrTransient - storage timeout or unavailability, safe to retry.
	ErrTransient = errors.New("transient storage error")
)

// wrapStorage classifies an error coming back from GORM. Timeouts and
// cancellations become ErrTransient, missing rows become ErrNotFound,
// everything else is passed through for the caller to classify.
func wrapStorage(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
