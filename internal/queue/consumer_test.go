package queue

import "testing"

func TestScheduleDigest(t *testing.T) {
	cases := []struct {
		name  string
		sched map[string][]string
		want  string
	}{
		{
			name:  "empty",
			sched: map[string][]string{},
			want:  "",
		},
		{
			name:  "single day single time",
			sched: map[string][]string{"2026-09-01": {"09:00"}},
			want:  "9/1 09:00",
		},
		{
			name: "days sorted, time order preserved",
			sched: map[string][]string{
				"2026-09-03": {"15:30"},
				"2026-09-01": {"12:00", "09:00"},
			},
			want: "9/1 12:00, 9/1 09:00, 9/3 15:30",
		},
		{
			name:  "unparseable day kept verbatim",
			sched: map[string][]string{"someday": {"09:00"}},
			want:  "someday 09:00",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScheduleDigest(tc.sched); got != tc.want {
				t.Errorf("ScheduleDigest() = %q, want %q", got, tc.want)
			}
		})
	}
}
