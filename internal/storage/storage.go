package storage

import (
	"database/sql"
	"embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl embed.FS

// DB is the persistent store. It is safe for concurrent use from the
// update loop and the checker goroutine (database/sql serializes
// access; sqlite busy timeout covers writer contention).
type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}
