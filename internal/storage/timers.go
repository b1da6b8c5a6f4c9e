package storage

import (
	"time"

	"telegram-reminder-bot/internal/models"
)

func (d *DB) InsertTimer(t *models.Timer) (int64, error) {
	res, err := d.Exec(`
        INSERT INTO timers (chat_id, text, end_at) VALUES (?,?,?)
    `, t.ChatID, t.Text, t.EndAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) ListTimers(chatID int64) ([]models.Timer, error) {
	return d.queryTimers(`SELECT id, chat_id, text, end_at FROM timers WHERE chat_id=? ORDER BY end_at`, chatID)
}

func (d *DB) ListDueTimers(now time.Time) ([]models.Timer, error) {
	return d.queryTimers(`SELECT id, chat_id, text, end_at FROM timers WHERE end_at<=? ORDER BY end_at`, now.Unix())
}

func (d *DB) queryTimers(q string, args ...any) ([]models.Timer, error) {
	rows, err := d.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.Timer
	for rows.Next() {
		var t models.Timer
		var end int64
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Text, &end); err != nil {
			return nil, err
		}
		t.EndAt = time.Unix(end, 0)
		res = append(res, t)
	}
	return res, rows.Err()
}

func (d *DB) DeleteTimer(id int64) error {
	_, err := d.Exec(`DELETE FROM timers WHERE id=?`, id)
	return err
}
