// ABOUTME: Database schema definitions
// ABOUTME: A single kv table holds each persisted CRM document
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
