package db

import (
	"database/sql"
	"fmt"
	"time"
)

// MetadataLastRun is the metadata key holding the last run's finish time.
const MetadataLastRun = "last_run_at"

// WriteRecord represents one write attempt.
type WriteRecord struct {
	ID            int64
	ProductHandle string
	ExternalID    string
	TransactionID string
	Succeeded     bool
	Message       string
	Amount        string
	WrittenAt     time.Time
}

// WriteHistory manages write history operations.
type WriteHistory struct {
	conn *Connection
}

// NewWriteHistory creates a new WriteHistory instance.
func NewWriteHistory(conn *Connection) *WriteHistory {
	return &WriteHistory{conn: conn}
}

// RecordWrite records a write attempt.
func (h *WriteHistory) RecordWrite(record WriteRecord) error {
	query := `
		INSERT INTO write_history (product_handle, external_id, transaction_id, succeeded, message, amount)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var txnID sql.NullString
	if record.TransactionID != "" {
		txnID = sql.NullString{String: record.TransactionID, Valid: true}
	}

	_, err := h.conn.Exec(query,
		record.ProductHandle,
		record.ExternalID,
		txnID,
		record.Succeeded,
		record.Message,
		record.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to record write: %w", err)
	}

	return nil
}

// RecentFailures returns the newest failed writes, newest first.
func (h *WriteHistory) RecentFailures(limit int) ([]WriteRecord, error) {
	query := `
		SELECT id, product_handle, external_id, message, amount, written_at
		FROM write_history
		WHERE succeeded = 0
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := h.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent failures: %w", err)
	}
	defer rows.Close()

	var records []WriteRecord
	for rows.Next() {
		var record WriteRecord
		if err := rows.Scan(
			&record.ID,
			&record.ProductHandle,
			&record.ExternalID,
			&record.Message,
			&record.Amount,
			&record.WrittenAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan write record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Stats represents write statistics.
type Stats struct {
	TotalWrites int
	Succeeded   int
	Failed      int
	LastRun     sql.NullString
	LastWriteAt sql.NullString
}

// GetStats retrieves write statistics.
func (h *WriteHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(succeeded), 0), MAX(written_at)
		FROM write_history
	`).Scan(&stats.TotalWrites, &stats.Succeeded, &stats.LastWriteAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get write counts: %w", err)
	}
	stats.Failed = stats.TotalWrites - stats.Succeeded

	lastRun, err := h.GetMetadata(MetadataLastRun)
	if err != nil {
		return nil, err
	}
	if lastRun != "" {
		stats.LastRun = sql.NullString{String: lastRun, Valid: true}
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value, or "" when unset.
func (h *WriteHistory) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM sync_metadata WHERE key = ?`

	var value string
	err := h.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (h *WriteHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
