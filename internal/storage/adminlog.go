package storage

import (
	"time"

	"telegram-reminder-bot/internal/models"
)

// AppendAdminLog records a privileged action. Append-only.
func (d *DB) AppendAdminLog(e *models.AdminLogEntry) error {
	if e.At == 0 {
		e.At = time.Now().Unix()
	}
	_, err := d.Exec(`
        INSERT INTO admin_log (admin_id, action, target_id, details, at)
        VALUES (?,?,?,?,?)
    `, e.AdminID, e.Action, e.TargetID, e.Details, e.At)
	return err
}

// ListAdminLog returns the latest entries, newest first.
func (d *DB) ListAdminLog(limit int) ([]models.AdminLogEntry, error) {
	rows, err := d.Query(`
        SELECT id, admin_id, action, target_id, details, at
        FROM admin_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.AdminLogEntry
	for rows.Next() {
		var e models.AdminLogEntry
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.TargetID, &e.Details, &e.At); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
