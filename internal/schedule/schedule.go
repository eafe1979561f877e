// Package schedule defines the week-schedule value submitted by applicants
// (a mapping from calendar day to requested broadcast times) and the shape
// validation that runs before any persistence is attempted.
package schedule

import (
    "encoding/json"
    "sort"
    "time"
)

// Schedule maps a calendar day ("2006-01-02") to the time-of-day strings
// ("15:04") requested for that day.
type Schedule map[string][]string

// Entry is a single (day, time) pair implied by a schedule.
type Entry struct {
    Day  string `json:"date"`
    Time string `json:"time"`
}

// ValidTime reports whether t is a well-formed time-of-day string: exactly
// five characters with the hour/minute separator at position 2.
func ValidTime(t string) bool {
    return len(t) == 5 && t[2] == ':'
}

// Valid reports whether every time string in the schedule is well-formed.
// An empty schedule is valid (zero slots requested).  Duplicate times within
// one day are not rejected here; the allocator turns them into a conflict
// against themselves.  Valid is a pure function of its input.
func Valid(s Schedule) bool {
    for _, times := range s {
        for _, t := range times {
            if !ValidTime(t) {
                return false
            }
        }
    }
    return true
}

// Parse decodes the JSON form submitted by clients and validates it.  The
// top level must be an object and every day value must be an array; day
// keys must parse as 2006-01-02 dates and every time string must be
// well-formed.  Values are decoded per day rather than straight into the
// map type because a JSON null would otherwise slip through as an empty
// day instead of being rejected.  The returned schedule is nil when err is
// non-nil.
func Parse(raw []byte) (Schedule, error) {
    var shape map[string]json.RawMessage
    if err := json.Unmarshal(raw, &shape); err != nil {
        return nil, ErrBadShape
    }
    if shape == nil {
        // Only a top-level null leaves the map nil without an error.
        return nil, ErrBadShape
    }
    s := make(Schedule, len(shape))
    for day, val := range shape {
        if _, err := time.Parse("2006-01-02", day); err != nil {
            return nil, ErrBadDay
        }
        var times []string
        if err := json.Unmarshal(val, &times); err != nil {
            return nil, ErrBadShape
        }
        if times == nil {
            // A null value decodes to a nil slice without an error.
            return nil, ErrBadShape
        }
        s[day] = times
    }
    if !Valid(s) {
        return nil, ErrBadTime
    }
    return s, nil
}

// Entries expands the schedule into individual (day, time) pairs, ordered by
// day then by position within each day's list.  Duplicate times submitted
// for one day are preserved so that the allocator sees them.
func (s Schedule) Entries() []Entry {
    days := make([]string, 0, len(s))
    for d := range s {
        days = append(days, d)
    }
    sort.Strings(days)
    var out []Entry
    for _, d := range days {
        for _, t := range s[d] {
            out = append(out, Entry{Day: d, Time: t})
        }
    }
    return out
}
