package contactstore

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when the backing file doesn't exist
	ErrStoreUnavailable = errors.New("contactstore: backing file doesn't exist")
	// ErrNotFound is returned when no live contact matches
	ErrNotFound = errors.New("contactstore: contact not found")
	// ErrPartialUpdate matches any *PartialUpdateError via errors.Is
	ErrPartialUpdate = errors.New("contactstore: partial update")
)

// ValidationError is returned when a contact fails validation.
// No write happens when it's returned.
type ValidationError struct {
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	return "contactstore: invalid contact: " + e.Errors.String()
}

// PartialUpdateError is returned by Update when the soft delete of the old
// line or the append of the new line failed. There's no rollback: Deleted
// and Created tell which steps took effect.
type PartialUpdateError struct {
	Deleted bool
	Created bool
	Err     error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("contactstore: partial update (deleted: %v, created: %v): %s", e.Deleted, e.Created, e.Err)
}

func (e *PartialUpdateError) Unwrap() error {
	return e.Err
}

func (e *PartialUpdateError) Is(target error) bool {
	return target == ErrPartialUpdate
}
