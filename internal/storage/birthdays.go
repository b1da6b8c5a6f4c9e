package storage

import (
	"telegram-reminder-bot/internal/models"
)

func (d *DB) InsertBirthday(b *models.Birthday) (int64, error) {
	res, err := d.Exec(`
        INSERT INTO birthdays (chat_id, name, bmonth, bday, byear)
        VALUES (?,?,?,?,?)
    `, b.ChatID, b.Name, b.Month, b.Day, b.Year)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) ListBirthdays(chatID int64) ([]models.Birthday, error) {
	return d.queryBirthdays(`
        SELECT id, chat_id, name, bmonth, bday, byear, notified_on
        FROM birthdays WHERE chat_id=? ORDER BY bmonth, bday`, chatID)
}

func (d *DB) ListAllBirthdays() ([]models.Birthday, error) {
	return d.queryBirthdays(`
        SELECT id, chat_id, name, bmonth, bday, byear, notified_on FROM birthdays`)
}

func (d *DB) queryBirthdays(q string, args ...any) ([]models.Birthday, error) {
	rows, err := d.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.Birthday
	for rows.Next() {
		var b models.Birthday
		if err := rows.Scan(&b.ID, &b.ChatID, &b.Name, &b.Month, &b.Day, &b.Year, &b.NotifiedOn); err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, rows.Err()
}

// TouchBirthdayNotified records that the day-of notice for day (a
// YYYY-MM-DD key) went out, so the same hour does not fire twice.
func (d *DB) TouchBirthdayNotified(id int64, day string) error {
	_, err := d.Exec(`UPDATE birthdays SET notified_on=? WHERE id=?`, day, id)
	return err
}
