package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-reminder-bot/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertUserKeepsConsent(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.UpsertUser(&models.User{ChatID: 1, Username: "alice"}))
	require.NoError(t, db.AcceptUser(1))

	// repeated /start must not reset accepted
	require.NoError(t, db.UpsertUser(&models.User{ChatID: 1, Username: "alice2"}))

	u, err := db.GetUser(1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.Accepted)
	assert.Equal(t, "alice2", u.Username)
}

func TestGetUserMissingIsNilNil(t *testing.T) {
	db := testDB(t)
	u, err := db.GetUser(404)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestListAcceptedUsers(t *testing.T) {
	db := testDB(t)
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, db.UpsertUser(&models.User{ChatID: id}))
	}
	require.NoError(t, db.AcceptUser(2))

	accepted, err := db.ListAcceptedUsers()
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, int64(2), accepted[0].ChatID)

	total, acc, err := db.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, acc)
}

func TestDueReminderSelection(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	_, err := db.InsertReminder(&models.Reminder{ChatID: 1, Text: "past", DueAt: now.Add(-time.Minute)})
	require.NoError(t, err)
	_, err = db.InsertReminder(&models.Reminder{ChatID: 1, Text: "future", DueAt: now.Add(time.Hour)})
	require.NoError(t, err)
	// lead time pulls an otherwise-future reminder into scope
	_, err = db.InsertReminder(&models.Reminder{
		ChatID: 1, Text: "lead", DueAt: now.Add(10 * time.Minute), NotifyBeforeMin: 15,
	})
	require.NoError(t, err)

	due, err := db.ListDueReminders(now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "past", due[0].Text)
	assert.Equal(t, "lead", due[1].Text)
}

func TestDeleteReminderScopedToOwner(t *testing.T) {
	db := testDB(t)
	id, err := db.InsertReminder(&models.Reminder{ChatID: 1, Text: "mine", DueAt: time.Now()})
	require.NoError(t, err)

	ok, err := db.DeleteReminder(id, 2)
	require.NoError(t, err)
	assert.False(t, ok, "foreign actor must not delete")

	ok, err = db.DeleteReminder(id, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTimers(t *testing.T) {
	db := testDB(t)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	id, err := db.InsertTimer(&models.Timer{ChatID: 1, Text: "tea", EndAt: now.Add(-time.Second)})
	require.NoError(t, err)
	_, err = db.InsertTimer(&models.Timer{ChatID: 1, EndAt: now.Add(time.Hour)})
	require.NoError(t, err)

	due, err := db.ListDueTimers(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)

	require.NoError(t, db.DeleteTimer(id))
	due, err = db.ListDueTimers(now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestBanPermanentSentinel(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.UpsertBan(&models.Ban{ChatID: 1, Reason: "spam"}))
	b, err := db.GetBan(1)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.Permanent())
	assert.False(t, b.Expired(time.Now().Add(100*365*24*time.Hour)))

	until := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.UpsertBan(&models.Ban{ChatID: 1, Until: until}))
	b, err = db.GetBan(1)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.False(t, b.Permanent())
	assert.True(t, b.Expired(until.Add(time.Second)))
	assert.False(t, b.Expired(until.Add(-time.Second)))
}

func TestBirthdayNotifiedOn(t *testing.T) {
	db := testDB(t)
	id, err := db.InsertBirthday(&models.Birthday{ChatID: 1, Name: "Мама", Month: 5, Day: 12, Year: 1980})
	require.NoError(t, err)

	require.NoError(t, db.TouchBirthdayNotified(id, "2026-05-12"))
	all, err := db.ListAllBirthdays()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2026-05-12", all[0].NotifiedOn)
}

func TestAdminLogAppend(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.AppendAdminLog(&models.AdminLogEntry{AdminID: 9, Action: "ban", TargetID: 1}))
	require.NoError(t, db.AppendAdminLog(&models.AdminLogEntry{AdminID: 9, Action: "broadcast", Details: "sent=7 failed=3"}))

	entries, err := db.ListAdminLog(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "broadcast", entries[0].Action, "newest first")
}
