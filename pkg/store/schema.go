package store

// schema is the sqlite3 dialect of the inspection schema.
// Postgres's NUMERIC/TIMESTAMP WITH TIME ZONE/array columns have no
// sqlite3 equivalent; NUMERIC becomes TEXT (sqlite3's own integer
// affinity tops out at int64, too narrow for a U256), arrays become
// comma-joined TEXT, and the enum types become plain TEXT with no
// server-side constraint - sqlite3 has no native enum/check-by-name
// type. The allowed call_type and classification values are not
// recorded anywhere in the database.
const schema = `
CREATE TABLE IF NOT EXISTS %[1]s (
	hash                  TEXT PRIMARY KEY,
	status                TEXT NOT NULL,
	block_number          INTEGER NOT NULL,
	gas_price             TEXT NOT NULL,
	gas_used              INTEGER NOT NULL,
	revenue               TEXT NOT NULL,
	protocols             TEXT NOT NULL,
	actions               TEXT NOT NULL,
	eoa                   TEXT NOT NULL,
	contract              TEXT NOT NULL,
	proxy_impl            TEXT,
	transaction_position  INTEGER NOT NULL,
	inserted_at           TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS internal_calls (
	transaction_hash TEXT NOT NULL REFERENCES %[1]s(hash) ON DELETE CASCADE,
	trace_address    TEXT NOT NULL,
	call_type        TEXT NOT NULL,
	value            TEXT NOT NULL,
	gas_used         INTEGER NOT NULL,
	caller           TEXT NOT NULL,
	callee           TEXT NOT NULL,
	protocol         TEXT,
	input            BLOB,
	classification   TEXT NOT NULL,
	PRIMARY KEY (transaction_hash, trace_address)
);

CREATE TABLE IF NOT EXISTS event_logs (
	address           TEXT NOT NULL,
	transaction_hash  TEXT NOT NULL REFERENCES %[1]s(hash) ON DELETE CASCADE,
	signature         TEXT NOT NULL,
	topics            TEXT NOT NULL,
	data              BLOB,
	transaction_index INTEGER NOT NULL,
	log_index         INTEGER NOT NULL,
	block_number      INTEGER NOT NULL,
	PRIMARY KEY (transaction_hash, log_index)
);

CREATE TABLE IF NOT EXISTS known_bots (address TEXT PRIMARY KEY, label TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS ignored_targets (address TEXT PRIMARY KEY);
CREATE TABLE IF NOT EXISTS protocols (name TEXT PRIMARY KEY);
CREATE TABLE IF NOT EXISTS addressbook (address TEXT PRIMARY KEY, label TEXT NOT NULL);
`
