package users

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when a write is attempted with no records.
var ErrEmptyBatch = errors.New("users: batch must contain at least one record")

// ErrMalformedPayload is returned when a request body is neither a single
// user object nor an array of user objects.
var ErrMalformedPayload = errors.New("users: payload is neither a user object nor an array of users")

// RecordError reports which record in a batch failed validation.
type RecordError struct {
	Index int
	ID    string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("users: record %d (id %q) invalid: %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
