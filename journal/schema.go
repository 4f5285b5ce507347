package journal

const schema = `
CREATE TABLE IF NOT EXISTS trade_history (
	id TEXT PRIMARY KEY,
	timestamp DATETIME NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	price REAL NOT NULL,
	order_id TEXT NOT NULL,
	signal_source TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_history_timestamp ON trade_history(timestamp);
`
