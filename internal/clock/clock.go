// Package clock wraps "now" in the bot's fixed civil timezone.
// Everything that compares against wall-clock time (the checker loop,
// the calendar picker, ban expiry) goes through the same Clock so tests
// can substitute a clockwork fake.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type Clock struct {
	clk clockwork.Clock
	loc *time.Location
}

// New loads tz (IANA name); an unknown zone falls back to UTC rather
// than failing bootstrap.
func New(tz string) *Clock {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return &Clock{clk: clockwork.NewRealClock(), loc: loc}
}

// NewFake builds a Clock over a clockwork fake, for tests.
func NewFake(clk clockwork.Clock, loc *time.Location) *Clock {
	return &Clock{clk: clk, loc: loc}
}

// Now returns the current moment in the bot timezone.
func (c *Clock) Now() time.Time { return c.clk.Now().In(c.loc) }

// Location returns the bot timezone.
func (c *Clock) Location() *time.Location { return c.loc }

// Today returns midnight of the current civil date.
func (c *Clock) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

// NextBirthday substitutes the current year into month/day and rolls
// forward one year if that date already passed.
func (c *Clock) NextBirthday(month time.Month, day int) time.Time {
	today := c.Today()
	next := time.Date(today.Year(), month, day, 0, 0, 0, 0, c.loc)
	if next.Before(today) {
		next = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, c.loc)
	}
	return next
}

// DaysUntilBirthday returns whole civil days until the next occurrence
// of month/day; 0 means it is today. The subtraction runs on
// UTC-constructed midnights: in a DST zone a local day can be 23 or 25
// hours long, which would skew hour-based division by one day.
func (c *Clock) DaysUntilBirthday(month time.Month, day int) int {
	today := c.Today()
	next := c.NextBirthday(month, day)
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
