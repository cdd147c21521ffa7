package task

import (
	"errors"
	"time"
)

// Status is the closed set of lifecycle states a task can be in.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusAbandoned  Status = "ABANDONED"
)

var (
	// ErrSameStatus is returned when a transition targets the current status.
	ErrSameStatus = errors.New("task is already in the requested status")
	// ErrUnknownStatus is returned when the target status is not in the enum.
	ErrUnknownStatus = errors.New("unknown task status")
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// TransitionResult carries the timestamps derived by a status change.
// Nil fields mean the corresponding timestamp is left untouched.
type TransitionResult struct {
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// Transition validates a status change and derives its side-effect
// timestamps. Moving into IN_PROGRESS stamps StartedAt, moving into
// COMPLETED stamps CompletedAt; all other targets derive nothing.
// Caller-supplied timestamps are never consulted.
//
// A no-op transition (target == current) is an error, not a success.
func Transition(current, target Status, now time.Time) (TransitionResult, error) {
	if !ValidStatus(target) {
		return TransitionResult{}, ErrUnknownStatus
	}
	if target == current {
		return TransitionResult{}, ErrSameStatus
	}

	var result TransitionResult
	switch target {
	case StatusInProgress:
		result.StartedAt = &now
	case StatusCompleted:
		result.CompletedAt = &now
	}
	return result, nil
}
