package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "single weekday",
			start: date(2025, time.March, 3), // Monday
			end:   date(2025, time.March, 4),
			want:  1,
		},
		{
			name:  "full work week monday to saturday",
			start: date(2025, time.March, 3), // Monday
			end:   date(2025, time.March, 8), // Saturday (excluded, half-open)
			want:  5,
		},
		{
			name:  "saturday counts as a working day",
			start: date(2025, time.March, 8), // Saturday
			end:   date(2025, time.March, 9),
			want:  1,
		},
		{
			name:  "sunday alone counts zero",
			start: date(2025, time.March, 9), // Sunday
			end:   date(2025, time.March, 10),
			want:  0,
		},
		{
			name:  "saturday to monday counts saturday only",
			start: date(2025, time.March, 8),  // Saturday
			end:   date(2025, time.March, 10), // Monday excluded, Sunday skipped
			want:  1,
		},
		{
			name:  "saturday through monday skips only sunday",
			start: date(2025, time.March, 8),  // Saturday
			end:   date(2025, time.March, 11), // Tuesday excluded
			want:  2,                          // Sat + Mon
		},
		{
			name:  "full calendar week",
			start: date(2025, time.March, 3),
			end:   date(2025, time.March, 10),
			want:  6,
		},
		{
			name:  "return day itself not counted",
			start: date(2025, time.March, 3),
			end:   date(2025, time.March, 3),
			want:  0,
		},
		{
			name:  "end before start counts zero",
			start: date(2025, time.March, 10),
			end:   date(2025, time.March, 3),
			want:  0,
		},
		{
			name:  "spans month boundary",
			start: date(2025, time.February, 27), // Thursday
			end:   date(2025, time.March, 4),     // Tuesday
			want:  4,                             // Thu Fri Sat Mon
		},
		{
			name:  "time of day is ignored",
			start: time.Date(2025, time.March, 3, 23, 59, 0, 0, time.UTC),
			end:   time.Date(2025, time.March, 4, 0, 1, 0, 0, time.UTC),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWorkingDays(tt.start, tt.end))
		})
	}
}
