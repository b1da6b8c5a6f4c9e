package storage

import (
	"database/sql"
	"errors"
	"time"

	"telegram-reminder-bot/internal/models"
)

// UpsertBan inserts or overwrites a ban. A zero Until means permanent
// and is stored as 0.
func (d *DB) UpsertBan(b *models.Ban) error {
	var until int64
	if !b.Until.IsZero() {
		until = b.Until.Unix()
	}
	_, err := d.Exec(`
        INSERT INTO bans (chat_id, until, reason, created_at)
        VALUES (?,?,?,?)
        ON CONFLICT(chat_id) DO UPDATE SET until=excluded.until,
            reason=excluded.reason,
            created_at=excluded.created_at
    `, b.ChatID, until, b.Reason, time.Now().Unix())
	return err
}

func (d *DB) GetBan(chatID int64) (*models.Ban, error) {
	var b models.Ban
	var until int64

	err := d.QueryRow(`
        SELECT chat_id, until, reason, created_at FROM bans WHERE chat_id=?`, chatID,
	).Scan(&b.ChatID, &until, &b.Reason, &b.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if until != 0 {
		b.Until = time.Unix(until, 0)
	}
	return &b, nil
}

func (d *DB) ListBans() ([]models.Ban, error) {
	rows, err := d.Query(`SELECT chat_id, until, reason, created_at FROM bans`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.Ban
	for rows.Next() {
		var b models.Ban
		var until int64
		if err := rows.Scan(&b.ChatID, &until, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		if until != 0 {
			b.Until = time.Unix(until, 0)
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

func (d *DB) DeleteBan(chatID int64) (bool, error) {
	res, err := d.Exec(`DELETE FROM bans WHERE chat_id=?`, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
