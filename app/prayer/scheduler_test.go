package prayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	scheduled map[int]time.Time
	canceled  []int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{scheduled: make(map[int]time.Time)}
}

func (f *fakeNotifier) Schedule(id int, title, body string, at time.Time) bool {
	f.scheduled[id] = at
	return true
}

func (f *fakeNotifier) Cancel(id int) {
	f.canceled = append(f.canceled, id)
}

var testTimes = &Times{
	Fajr:    "05:12",
	Sunrise: "06:45",
	Dhuhr:   "13:05",
	Asr:     "16:40",
	Maghrib: "19:55",
	Isha:    "21:20",
}

func TestScheduleDaySkipsPastTimes(t *testing.T) {
	n := newFakeNotifier()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	count, err := ScheduleDay(n, day, testTimes, now)
	require.NoError(t, err)

	// Fajr and Dhuhr are already past; Asr, Maghrib, Isha remain.
	assert.Equal(t, 3, count)
	assert.NotContains(t, n.scheduled, 1)
	assert.NotContains(t, n.scheduled, 2)
	assert.Equal(t, time.Date(2026, 3, 10, 16, 40, 0, 0, time.UTC), n.scheduled[3])
}

func TestScheduleDayMalformedTime(t *testing.T) {
	n := newFakeNotifier()
	bad := *testTimes
	bad.Maghrib = "7 pm"
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := ScheduleDay(n, day, &bad, day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maghrib")
}

func TestCancelDay(t *testing.T) {
	n := newFakeNotifier()
	CancelDay(n)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, n.canceled)
}
