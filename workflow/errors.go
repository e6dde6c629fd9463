package workflow

import "errors"

// Error taxonomy surfaced to callers. Lookup and validation failures
// abort before any state mutation; notification delivery failures are
// logged and swallowed.
var (
	ErrItemNotFound       = errors.New("item not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyPending     = errors.New("enrollment already pending approval")
	ErrAlreadyApproved    = errors.New("enrollment already approved")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidGrade       = errors.New("grade out of range")
	ErrDeadlinePassed     = errors.New("assignment deadline passed")
	ErrInvalidDecision    = errors.New("invalid decision")
)
