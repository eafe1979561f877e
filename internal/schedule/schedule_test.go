package schedule

import (
	"errors"
	"reflect"
	"testing"
)

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		in   Schedule
		want bool
	}{
		{"empty schedule", Schedule{}, true},
		{"nil schedule", nil, true},
		{"single day", Schedule{"2025-03-10": {"09:00", "10:00"}}, true},
		{"empty day list", Schedule{"2025-03-10": {}}, true},
		{"missing leading zero", Schedule{"2025-03-10": {"9:00"}}, false},
		{"no colon", Schedule{"2025-03-10": {"09-00"}}, false},
		{"too long", Schedule{"2025-03-10": {"09:00:00"}}, false},
		{"one bad among good", Schedule{"2025-03-10": {"09:00"}, "2025-03-11": {"9:00"}}, false},
		{"duplicates allowed", Schedule{"2025-03-10": {"09:00", "09:00"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Valid(tc.in); got != tc.want {
				t.Fatalf("Valid(%v) = %v, want %v", tc.in, got, tc.want)
			}
			// Validation has no side effects; a second call must agree.
			if got := Valid(tc.in); got != tc.want {
				t.Fatalf("second Valid(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`{"2025-03-10": ["09:00", "10:00"]}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := Schedule{"2025-03-10": {"09:00", "10:00"}}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("Parse = %v, want %v", s, want)
	}
}

func TestParseEmptyObject(t *testing.T) {
	s, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse({}) returned error: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("Parse({}) = %v, want empty", s)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"top level array", `["09:00"]`, ErrBadShape},
		{"top level string", `"09:00"`, ErrBadShape},
		{"top level null", `null`, ErrBadShape},
		{"value not array", `{"2025-03-10": "09:00"}`, ErrBadShape},
		{"value null", `{"2025-03-10": null}`, ErrBadShape},
		{"value array of numbers", `{"2025-03-10": [900]}`, ErrBadShape},
		{"not json", `schedule`, ErrBadShape},
		{"bad day key", `{"03/10/2025": ["09:00"]}`, ErrBadDay},
		{"short time", `{"2025-03-10": ["9:00"]}`, ErrBadTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Parse([]byte(tc.raw))
			if !errors.Is(err, tc.want) {
				t.Fatalf("Parse(%s) error = %v, want %v", tc.raw, err, tc.want)
			}
			if s != nil {
				t.Fatalf("Parse(%s) returned non-nil schedule on error", tc.raw)
			}
		})
	}
}

func TestEntriesOrdering(t *testing.T) {
	s := Schedule{
		"2025-03-11": {"08:00"},
		"2025-03-10": {"10:00", "09:00"},
	}
	got := s.Entries()
	want := []Entry{
		{Day: "2025-03-10", Time: "10:00"},
		{Day: "2025-03-10", Time: "09:00"},
		{Day: "2025-03-11", Time: "08:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Entries = %v, want %v", got, want)
	}
}

func TestEntriesKeepsDuplicates(t *testing.T) {
	s := Schedule{"2025-03-10": {"09:00", "09:00"}}
	if got := s.Entries(); len(got) != 2 {
		t.Fatalf("Entries dropped a duplicate: %v", got)
	}
}

func TestEntriesEmpty(t *testing.T) {
	if got := (Schedule{}).Entries(); len(got) != 0 {
		t.Fatalf("Entries of empty schedule = %v, want none", got)
	}
}
