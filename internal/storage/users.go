package storage

import (
	"database/sql"
	"errors"
	"time"

	"telegram-reminder-bot/internal/models"
)

// UpsertUser inserts or refreshes a user row. Accepted is deliberately
// left out of the update set: repeated /start must not reset consent.
func (d *DB) UpsertUser(u *models.User) error {
	_, err := d.Exec(`
        INSERT INTO users (chat_id, username, first_name, accepted, created_at)
        VALUES (?,?,?,?,?)
        ON CONFLICT(chat_id) DO UPDATE SET username=excluded.username,
            first_name=excluded.first_name
    `, u.ChatID, u.Username, u.FirstName, boolToInt(u.Accepted), time.Now().Unix())
	return err
}

// AcceptUser flips accepted to 1. Idempotent.
func (d *DB) AcceptUser(chatID int64) error {
	_, err := d.Exec(`UPDATE users SET accepted=1 WHERE chat_id=?`, chatID)
	return err
}

func (d *DB) GetUser(chatID int64) (*models.User, error) {
	var u models.User
	var accepted int

	err := d.QueryRow(`
        SELECT chat_id, username, first_name, accepted, created_at
        FROM users WHERE chat_id=?`, chatID,
	).Scan(&u.ChatID, &u.Username, &u.FirstName, &accepted, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Accepted = accepted == 1
	return &u, nil
}

func (d *DB) ListUsers() ([]models.User, error) {
	return d.listUsers(`SELECT chat_id, username, first_name, accepted, created_at FROM users`)
}

// ListAcceptedUsers returns broadcast recipients.
func (d *DB) ListAcceptedUsers() ([]models.User, error) {
	return d.listUsers(`SELECT chat_id, username, first_name, accepted, created_at FROM users WHERE accepted=1`)
}

func (d *DB) listUsers(q string) ([]models.User, error) {
	rows, err := d.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.User
	for rows.Next() {
		var u models.User
		var accepted int
		if err := rows.Scan(&u.ChatID, &u.Username, &u.FirstName, &accepted, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Accepted = accepted == 1
		res = append(res, u)
	}
	return res, rows.Err()
}

func (d *DB) CountUsers() (total, accepted int, err error) {
	err = d.QueryRow(`SELECT COUNT(*), COALESCE(SUM(accepted),0) FROM users`).Scan(&total, &accepted)
	return
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
