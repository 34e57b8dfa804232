package usecase

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrJobNotFound             = errors.New("job not found")
	ErrApplicationNotFound     = errors.New("application not found")
	ErrJobNotAccepting         = errors.New("job not accepting applications")
	ErrAlreadyApplied          = errors.New("you have already applied to this job")
	ErrDeadlinePassed          = errors.New("application deadline has passed")
	ErrInvalidJobTransition    = errors.New("invalid job status transition")
	ErrInvalidAppTransition    = errors.New("invalid application status transition")
	ErrProfileAlreadyCompleted = errors.New("profile already completed")
	ErrRoleAlreadySelected     = errors.New("role has already been selected")
	ErrConcurrentUpdate        = errors.New("the job was modified by another request, please retry")
)

// ValidationError reports request fields that failed a business rule.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
