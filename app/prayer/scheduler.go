package prayer

import (
	"fmt"
	"time"
)

type namedTime struct {
	id    int
	title string
	value string
}

// ScheduleDay registers one notification per prayer for the given day.
// Times already in the past are skipped, as is any time the platform
// declines. Returns how many notifications were accepted.
func ScheduleDay(n Notifier, day time.Time, times *Times, now time.Time) (int, error) {
	entries := []namedTime{
		{1, "Fajr", times.Fajr},
		{2, "Dhuhr", times.Dhuhr},
		{3, "Asr", times.Asr},
		{4, "Maghrib", times.Maghrib},
		{5, "Isha", times.Isha},
	}

	scheduled := 0
	for _, e := range entries {
		clock, err := time.Parse("15:04", e.value)
		if err != nil {
			return scheduled, fmt.Errorf("malformed %s time %q: %w", e.title, e.value, err)
		}
		at := time.Date(day.Year(), day.Month(), day.Day(),
			clock.Hour(), clock.Minute(), 0, 0, day.Location())
		if at.Before(now) {
			continue
		}
		if n.Schedule(e.id, e.title, "Time for "+e.title+" prayer", at) {
			scheduled++
		}
	}
	return scheduled, nil
}

// CancelDay removes all prayer notifications registered by ScheduleDay.
func CancelDay(n Notifier) {
	for id := 1; id <= 5; id++ {
		n.Cancel(id)
	}
}
