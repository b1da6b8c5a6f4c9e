package storage

import (
	"time"

	"telegram-reminder-bot/internal/models"
)

func (d *DB) InsertReminder(r *models.Reminder) (int64, error) {
	if r.RepeatKind == "" {
		r.RepeatKind = "none"
	}
	res, err := d.Exec(`
        INSERT INTO reminders (chat_id, text, due_at, category, repeat_kind, notify_before_min, done)
        VALUES (?,?,?,?,?,?,0)
    `, r.ChatID, r.Text, r.DueAt.Unix(), r.Category, r.RepeatKind, r.NotifyBeforeMin)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListReminders returns the actor's pending reminders ordered by due time.
func (d *DB) ListReminders(chatID int64) ([]models.Reminder, error) {
	return d.queryReminders(`
        SELECT id, chat_id, text, due_at, category, repeat_kind, notify_before_min, done
        FROM reminders WHERE chat_id=? AND done=0 ORDER BY due_at`, chatID)
}

// ListDueReminders selects rows whose effective moment (due_at minus
// the notify-before lead) has passed. Rows stay selectable until the
// delete commits, which is the at-least-once safety net.
func (d *DB) ListDueReminders(now time.Time) ([]models.Reminder, error) {
	return d.queryReminders(`
        SELECT id, chat_id, text, due_at, category, repeat_kind, notify_before_min, done
        FROM reminders
        WHERE done=0 AND due_at - notify_before_min*60 <= ?
        ORDER BY due_at`, now.Unix())
}

func (d *DB) queryReminders(q string, args ...any) ([]models.Reminder, error) {
	rows, err := d.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var due int64
		var done int
		if err := rows.Scan(&r.ID, &r.ChatID, &r.Text, &due, &r.Category,
			&r.RepeatKind, &r.NotifyBeforeMin, &done); err != nil {
			return nil, err
		}
		r.DueAt = time.Unix(due, 0)
		r.Done = done == 1
		res = append(res, r)
	}
	return res, rows.Err()
}

// DeleteReminder removes a row scoped to its owner; returns whether a
// row was actually deleted.
func (d *DB) DeleteReminder(id, chatID int64) (bool, error) {
	res, err := d.Exec(`DELETE FROM reminders WHERE id=? AND chat_id=?`, id, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteDeliveredReminder is the unscoped delete used by the checker.
func (d *DB) DeleteDeliveredReminder(id int64) error {
	_, err := d.Exec(`DELETE FROM reminders WHERE id=?`, id)
	return err
}
