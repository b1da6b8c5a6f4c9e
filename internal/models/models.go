package models

import "time"

// User represents a telegram user known to the bot.
// Accepted flips 0→1 exactly once via the consent callback.
type User struct {
	ChatID    int64  `db:"chat_id"    json:"chat_id"`
	Username  string `db:"username"   json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	Accepted  bool   `db:"accepted"   json:"accepted"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

// Reminder is a one-shot timed note.
type Reminder struct {
	ID              int64     `db:"id"`
	ChatID          int64     `db:"chat_id"`
	Text            string    `db:"text"`
	DueAt           time.Time `db:"due_at"` // anchored to the bot timezone
	Category        string    `db:"category"`
	RepeatKind      string    `db:"repeat_kind"` // only "none" for now
	NotifyBeforeMin int       `db:"notify_before_min"`
	Done            bool      `db:"done"`
}

// Timer is a countdown; deleted by the checker once it fires.
type Timer struct {
	ID     int64     `db:"id"`
	ChatID int64     `db:"chat_id"`
	Text   string    `db:"text"`
	EndAt  time.Time `db:"end_at"`
}

// Birthday recurs every year. Year may be 0 (unknown).
// NotifiedOn holds the last YYYY-MM-DD a day-of notice went out,
// so the checker does not congratulate twice within the same hour.
type Birthday struct {
	ID         int64  `db:"id"`
	ChatID     int64  `db:"chat_id"`
	Name       string `db:"name"`
	Month      int    `db:"bmonth"`
	Day        int    `db:"bday"`
	Year       int    `db:"byear"`
	NotifiedOn string `db:"notified_on"`
}

// Ban blocks a user. Until.IsZero() means permanent.
type Ban struct {
	ChatID    int64     `db:"chat_id"`
	Until     time.Time `db:"until"`
	Reason    string    `db:"reason"`
	CreatedAt int64     `db:"created_at"`
}

// Permanent reports whether the ban never expires on its own.
func (b *Ban) Permanent() bool { return b.Until.IsZero() }

// Expired reports whether a non-permanent ban has run out.
func (b *Ban) Expired(now time.Time) bool {
	return !b.Permanent() && !b.Until.After(now)
}

// AdminLogEntry is an append-only record of a privileged action.
type AdminLogEntry struct {
	ID       int64  `db:"id"`
	AdminID  int64  `db:"admin_id"`
	Action   string `db:"action"`
	TargetID int64  `db:"target_id"`
	Details  string `db:"details"`
	At       int64  `db:"at"`
}
