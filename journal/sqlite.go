package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"gmocoin-trader/market"
)

// SQLite stores the trade history in a local SQLite database. ULID primary
// keys keep rows insertion-ordered within the index.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the journal database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(rec TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trade_history
		(id, timestamp, side, size, price, order_id, signal_source, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp, string(rec.Side), rec.Size, rec.Price,
		rec.OrderID, rec.SignalSource, string(rec.Status), rec.ErrorMessage,
	)
	return err
}

// ListTrades returns up to limit records, newest first.
func (j *SQLite) ListTrades(limit int) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, timestamp, side, size, price, order_id, signal_source, status, error_message
		FROM trade_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var side, status string
		if err := rows.Scan(
			&rec.ID,
			&rec.Timestamp,
			&side,
			&rec.Size,
			&rec.Price,
			&rec.OrderID,
			&rec.SignalSource,
			&status,
			&rec.ErrorMessage,
		); err != nil {
			return nil, err
		}
		rec.Side = market.Side(side)
		rec.Status = Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
