// Package repository defines error values that are reused across multiple
// repositories.  These allow higher layers such as handlers to distinguish
// between failure scenarios: a submission id that does not exist, a login
// name already in use, or a reservation slot lost to a concurrent
// submission.
package repository

import (
    "errors"
    "fmt"
)

// ErrSubmissionNotFound is returned when a review operation references an
// unknown submission id.  Handlers translate this into HTTP 404.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrUsernameExists is returned when an insert or rename collides with an
// existing username.  Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when a registration collides with an existing
// email address.  Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// SlotTakenError reports that a (kind, day, time) reservation slot is
// already held by another submission.  It is raised from the storage-level
// uniqueness constraint, so it is authoritative even when the advisory
// pre-check saw no conflict.  Handlers translate it into HTTP 409 and
// include the colliding pair.
type SlotTakenError struct {
    Kind string
    Day  string
    Time string
}

func (e *SlotTakenError) Error() string {
    return fmt.Sprintf("slot already booked: kind=%s day=%s time=%s", e.Kind, e.Day, e.Time)
}
