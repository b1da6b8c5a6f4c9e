// Package scheduler runs the checker loop: a fixed-interval scan over
// timers, reminders, birthdays and bans. Bounded delivery delay of one
// interval is the accepted trade-off; no per-item timers.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"telegram-reminder-bot/internal/clock"
	"telegram-reminder-bot/internal/notify"
	"telegram-reminder-bot/internal/storage"
)

type Checker struct {
	DB           *storage.DB
	Notify       *notify.Dispatcher
	Clock        *clock.Clock
	BirthdayHour int
	Log          zerolog.Logger
}

// Start registers the checker with a fresh gocron scheduler and starts
// it. The returned scheduler owns the background goroutine.
func Start(c *Checker, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(c.RunCycle),
	)
	if err != nil {
		return nil, err
	}
	s.Start()
	return s, nil
}

// RunCycle performs one scan. Every sub-scan catches its own errors:
// a bad row or a failed query must never take down the remaining
// scans, and nothing here may stop the loop.
func (c *Checker) RunCycle() {
	defer func() {
		if r := recover(); r != nil {
			c.Log.Error().Any("panic", r).Msg("checker cycle panicked")
		}
	}()

	now := c.Clock.Now()
	c.fireTimers(now)
	c.fireReminders(now)
	c.fireBirthdays(now)
	c.sweepBans(now)
}

// fireTimers delivers and deletes every due timer. The delete is
// unconditional once delivery was attempted: timers are at-most-once.
func (c *Checker) fireTimers(now time.Time) {
	due, err := c.DB.ListDueTimers(now)
	if err != nil {
		c.Log.Error().Err(err).Msg("timers query failed")
		return
	}
	for _, t := range due {
		text := "⏱ Время вышло!"
		if t.Text != "" {
			text += "\n" + t.Text
		}
		c.Notify.Deliver(t.ChatID, text)
		if err := c.DB.DeleteTimer(t.ID); err != nil {
			c.Log.Error().Err(err).Int64("timer_id", t.ID).Msg("timer delete failed")
		}
	}
}

// fireReminders delivers then deletes. If the delete fails the row is
// re-selected next cycle: at-least-once, never silently skipped.
func (c *Checker) fireReminders(now time.Time) {
	due, err := c.DB.ListDueReminders(now)
	if err != nil {
		c.Log.Error().Err(err).Msg("reminders query failed")
		return
	}
	for _, r := range due {
		c.Notify.Deliver(r.ChatID, "⏰ Напоминание:\n"+r.Text)
		if err := c.DB.DeleteDeliveredReminder(r.ID); err != nil {
			c.Log.Error().Err(err).Int64("reminder_id", r.ID).Msg("reminder delete failed")
		}
	}
}

// fireBirthdays congratulates on the day itself at the configured
// hour, once per date (notified_on dedupes repeat cycles within the
// same hour).
func (c *Checker) fireBirthdays(now time.Time) {
	if now.Hour() != c.BirthdayHour {
		return
	}
	all, err := c.DB.ListAllBirthdays()
	if err != nil {
		c.Log.Error().Err(err).Msg("birthdays query failed")
		return
	}
	today := now.Format("2006-01-02")
	for _, b := range all {
		if c.Clock.DaysUntilBirthday(time.Month(b.Month), b.Day) != 0 {
			continue
		}
		if b.NotifiedOn == today {
			continue
		}
		c.Notify.Deliver(b.ChatID, "🎉 Сегодня день рождения у "+b.Name+"!")
		if err := c.DB.TouchBirthdayNotified(b.ID, today); err != nil {
			c.Log.Error().Err(err).Int64("birthday_id", b.ID).Msg("birthday touch failed")
		}
	}
}

// sweepBans deletes expired non-permanent bans and tells the actor,
// best effort.
func (c *Checker) sweepBans(now time.Time) {
	bans, err := c.DB.ListBans()
	if err != nil {
		c.Log.Error().Err(err).Msg("bans query failed")
		return
	}
	for _, b := range bans {
		if !b.Expired(now) {
			continue
		}
		if _, err := c.DB.DeleteBan(b.ChatID); err != nil {
			c.Log.Error().Err(err).Int64("chat_id", b.ChatID).Msg("ban delete failed")
			continue
		}
		c.Notify.Deliver(b.ChatID, "✅ Срок бана истёк, доступ восстановлен")
	}
}
