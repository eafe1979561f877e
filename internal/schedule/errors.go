package schedule

import "errors"

// ErrBadShape is returned when the submitted value is not a JSON object
// mapping day strings to arrays of time strings.
var ErrBadShape = errors.New("schedule must be an object of day to time list")

// ErrBadDay is returned when a day key is not a 2006-01-02 date.
var ErrBadDay = errors.New("schedule day must be YYYY-MM-DD")

// ErrBadTime is returned when a time entry is not a 5-character HH:MM string.
var ErrBadTime = errors.New("schedule time must be HH:MM")
