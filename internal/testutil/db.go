// Package testutil provides an in-memory sqlite store mirroring the MySQL
// schema, so repository and handler tests run without a database server.
package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

var dbSeq atomic.Uint64

const schema = `
CREATE TABLE users (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    email             TEXT NOT NULL UNIQUE,
    password_hash     TEXT NOT NULL,
    display_name      TEXT NOT NULL,
    zip_code          TEXT,
    lat               REAL,
    lng               REAL,
    is_giver          BOOLEAN NOT NULL DEFAULT 0,
    is_receiver       BOOLEAN NOT NULL DEFAULT 0,
    is_driver         BOOLEAN NOT NULL DEFAULT 0,
    no_contact        BOOLEAN NOT NULL DEFAULT 0,
    pickup_notes      TEXT NOT NULL DEFAULT '',
    notification_pref TEXT NOT NULL DEFAULT 'all',
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE food_listings (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL REFERENCES users(id),
    title           TEXT NOT NULL,
    description     TEXT NOT NULL,
    pickup_location TEXT,
    lat             REAL,
    lng             REAL,
    status          TEXT NOT NULL DEFAULT 'available',
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE listing_events (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    listing_id   INTEGER NOT NULL REFERENCES food_listings(id),
    actor_id     INTEGER NOT NULL,
    recipient_id INTEGER NOT NULL,
    event_type   TEXT NOT NULL,
    note         TEXT NOT NULL DEFAULT '',
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// OpenDB opens a fresh in-memory database with the application schema
// applied.  Shared cache plus a single pooled connection keeps concurrent
// test goroutines serialized the way a server-side store would.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
