// Package db provides an optional SQLite audit log of ledger writes.
// The log is informational only: it never decides what a run writes.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- One row per moneyTransactionCreate attempt
CREATE TABLE IF NOT EXISTS write_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    product_handle TEXT NOT NULL,
    external_id TEXT NOT NULL,
    transaction_id TEXT,               -- NULL when the write failed
    succeeded INTEGER NOT NULL,        -- 0 or 1
    message TEXT NOT NULL DEFAULT '',  -- failure detail
    amount TEXT NOT NULL,              -- decimal string as posted
    written_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_write_history_handle
    ON write_history(product_handle);

-- Key-value metadata about runs
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
