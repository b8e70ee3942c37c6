package leave

import "time"

// CountWorkingDays counts the days in [start, end) that are working days.
// Only Sunday is excluded; Saturday counts as a working day. The range is
// half-open: the expected return day itself is not counted.
func CountWorkingDays(start, end time.Time) int {
	day := dateOnly(start)
	last := dateOnly(end)

	count := 0
	for day.Before(last) {
		if day.Weekday() != time.Sunday {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
