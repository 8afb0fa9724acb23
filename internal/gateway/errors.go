package gateway

import (
	"errors"
	"fmt"
)

// MutationErrorCode categorizes mutation failures.
type MutationErrorCode string

const (
	// ErrCodeValidation indicates a rejected candidate: duplicate key,
	// missing required field, malformed payload, immutable table or field.
	ErrCodeValidation MutationErrorCode = "VALIDATION_FAILURE"

	// ErrCodeReferentialConflict indicates a delete blocked by dependents.
	ErrCodeReferentialConflict MutationErrorCode = "REFERENTIAL_CONFLICT"

	// ErrCodeWriteThrough indicates the engine rejected or failed the
	// write. The cache is left untouched.
	ErrCodeWriteThrough MutationErrorCode = "WRITE_THROUGH_FAILURE"
)

// MutationError reports a failed mutation. All failures are side-effect
// free: no partial write is visible and the cache is not invalidated.
type MutationError struct {
	Code    MutationErrorCode
	Table   string
	Key     string
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("%s: %s (table=%s, key=%s)", e.Code, e.Message, e.Table, e.Key)
	case e.Table != "":
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *MutationError) Unwrap() error { return e.Err }

// IsValidationFailure reports whether err is a validation rejection.
func IsValidationFailure(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsReferentialConflict reports whether err is a blocked delete.
func IsReferentialConflict(err error) bool {
	return hasCode(err, ErrCodeReferentialConflict)
}

// IsWriteThroughFailure reports whether err is an engine write failure.
func IsWriteThroughFailure(err error) bool {
	return hasCode(err, ErrCodeWriteThrough)
}

func hasCode(err error, code MutationErrorCode) bool {
	var me *MutationError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

func validationError(table, key, message string) *MutationError {
	return &MutationError{Code: ErrCodeValidation, Table: table, Key: key, Message: message}
}
