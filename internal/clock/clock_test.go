package clock

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAt(t *testing.T, iso string) *Clock {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	at, err := time.ParseInLocation("2006-01-02 15:04", iso, loc)
	require.NoError(t, err)
	return NewFake(clockwork.NewFakeClockAt(at), loc)
}

func TestTodayIsMidnight(t *testing.T) {
	c := fakeAt(t, "2026-08-28 17:45")
	today := c.Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, 28, today.Day())
}

func TestNextBirthdayRollover(t *testing.T) {
	c := fakeAt(t, "2026-08-28 12:00")

	tests := []struct {
		name  string
		month time.Month
		day   int
		want  string
		days  int
	}{
		{name: "earlier this year rolls forward", month: time.May, day: 12, want: "2027-05-12"},
		{name: "later this year stays", month: time.December, day: 1, want: "2026-12-01"},
		{name: "today is zero days away", month: time.August, day: 28, want: "2026-08-28", days: 0},
		{name: "tomorrow", month: time.August, day: 29, want: "2026-08-29", days: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := c.NextBirthday(tt.month, tt.day)
			assert.Equal(t, tt.want, next.Format("2006-01-02"))
			if tt.want == "2026-08-28" || tt.want == "2026-08-29" {
				assert.Equal(t, tt.days, c.DaysUntilBirthday(tt.month, tt.day))
			}
		})
	}
}

func TestDaysUntilBirthdayAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// morning of the EU spring-forward day: the next local midnight is
	// only 23 hours away, which must still count as a full civil day
	at := time.Date(2026, 3, 29, 9, 0, 0, 0, loc)
	c := NewFake(clockwork.NewFakeClockAt(at), loc)
	assert.Equal(t, 1, c.DaysUntilBirthday(time.March, 30))
	assert.Equal(t, 0, c.DaysUntilBirthday(time.March, 29))

	// fall-back day is 25 hours long; still exactly one day
	at = time.Date(2026, 10, 24, 9, 0, 0, 0, loc)
	c = NewFake(clockwork.NewFakeClockAt(at), loc)
	assert.Equal(t, 1, c.DaysUntilBirthday(time.October, 25))
	assert.Equal(t, 2, c.DaysUntilBirthday(time.October, 26))
}

func TestDaysUntilBirthdayCrossYear(t *testing.T) {
	c := fakeAt(t, "2026-12-31 23:00")
	assert.Equal(t, 1, c.DaysUntilBirthday(time.January, 1))
}

func TestUnknownZoneFallsBackToUTC(t *testing.T) {
	c := New("No/Such-Zone")
	assert.Equal(t, time.UTC, c.Location())
}
