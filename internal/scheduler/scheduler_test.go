package scheduler

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reminder-bot/internal/clock"
	"telegram-reminder-bot/internal/models"
	"telegram-reminder-bot/internal/notify"
	"telegram-reminder-bot/internal/storage"
)

// fakeSender records deliveries; chat ids in fail get a transport
// error.
type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	fail map[int64]bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, nil
	}
	if f.fail[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("transport down")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) texts(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func newChecker(t *testing.T) (*Checker, *storage.DB, *fakeSender, *clockwork.FakeClock) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fc := clockwork.NewFakeClockAt(time.Date(2026, 8, 28, 9, 10, 0, 0, time.UTC))
	sender := &fakeSender{fail: map[int64]bool{}}
	c := &Checker{
		DB:           db,
		Notify:       &notify.Dispatcher{Bot: sender, Log: zerolog.Nop()},
		Clock:        clock.NewFake(fc, time.UTC),
		BirthdayHour: 9,
		Log:          zerolog.Nop(),
	}
	return c, db, sender, fc
}

func TestReminderDeliveredOnceWithinInterval(t *testing.T) {
	c, db, sender, fc := newChecker(t)

	_, err := db.InsertReminder(&models.Reminder{ChatID: 1, Text: "дз", DueAt: c.Clock.Now().Add(20 * time.Second)})
	require.NoError(t, err)

	c.RunCycle()
	assert.Empty(t, sender.texts(1), "not due yet")

	fc.Advance(30 * time.Second)
	c.RunCycle()
	require.Len(t, sender.texts(1), 1)
	assert.Contains(t, sender.texts(1)[0], "дз")

	// absent from subsequent scans
	fc.Advance(30 * time.Second)
	c.RunCycle()
	assert.Len(t, sender.texts(1), 1)

	due, err := db.ListDueReminders(c.Clock.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestTimerFiresAndIsDeleted(t *testing.T) {
	c, db, sender, fc := newChecker(t)

	_, err := db.InsertTimer(&models.Timer{ChatID: 2, Text: "чай", EndAt: c.Clock.Now().Add(time.Minute)})
	require.NoError(t, err)

	fc.Advance(time.Minute)
	c.RunCycle()
	require.Len(t, sender.texts(2), 1)
	assert.Contains(t, sender.texts(2)[0], "чай")

	c.RunCycle()
	assert.Len(t, sender.texts(2), 1)
}

func TestTimerDeletedEvenIfDeliveryFails(t *testing.T) {
	c, db, sender, fc := newChecker(t)
	sender.fail[2] = true

	_, err := db.InsertTimer(&models.Timer{ChatID: 2, EndAt: c.Clock.Now()})
	require.NoError(t, err)

	c.RunCycle()
	// at-most-once: the row is gone although the send failed
	fc.Advance(time.Minute)
	due, err := db.ListDueTimers(c.Clock.Now())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestBirthdayFiresOncePerDay(t *testing.T) {
	c, db, sender, fc := newChecker(t)

	_, err := db.InsertBirthday(&models.Birthday{ChatID: 3, Name: "Мама", Month: 8, Day: 28})
	require.NoError(t, err)
	_, err = db.InsertBirthday(&models.Birthday{ChatID: 3, Name: "Папа", Month: 5, Day: 12})
	require.NoError(t, err)

	c.RunCycle() // 09:10, birthday hour
	require.Len(t, sender.texts(3), 1)
	assert.Contains(t, sender.texts(3)[0], "Мама")

	// same hour, next cycle: deduped by notified_on
	fc.Advance(30 * time.Second)
	c.RunCycle()
	assert.Len(t, sender.texts(3), 1)

	// outside the hour nothing fires
	fc.Advance(time.Hour)
	c.RunCycle()
	assert.Len(t, sender.texts(3), 1)
}

func TestBirthdayQuietOutsideHour(t *testing.T) {
	c, db, sender, fc := newChecker(t)
	fc.Advance(5 * time.Hour) // 14:10

	_, err := db.InsertBirthday(&models.Birthday{ChatID: 3, Name: "Мама", Month: 8, Day: 28})
	require.NoError(t, err)

	c.RunCycle()
	assert.Empty(t, sender.texts(3))
}

func TestBanSweepNotifies(t *testing.T) {
	c, db, sender, fc := newChecker(t)

	require.NoError(t, db.UpsertBan(&models.Ban{ChatID: 4, Until: c.Clock.Now().Add(time.Minute)}))
	require.NoError(t, db.UpsertBan(&models.Ban{ChatID: 5})) // permanent

	c.RunCycle()
	assert.Empty(t, sender.texts(4), "still banned")

	fc.Advance(2 * time.Minute)
	c.RunCycle()
	require.Len(t, sender.texts(4), 1)

	bans, err := db.ListBans()
	require.NoError(t, err)
	require.Len(t, bans, 1)
	assert.Equal(t, int64(5), bans[0].ChatID, "permanent ban untouched")
}

func TestCycleSurvivesQueryAgainstClosedDB(t *testing.T) {
	c, db, _, _ := newChecker(t)
	require.NoError(t, db.Close())
	assert.NotPanics(t, func() { c.RunCycle() })
}
