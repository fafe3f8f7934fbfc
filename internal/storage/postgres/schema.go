package postgres

// schema mirrors the logical model: accounts, an append-only transaction log,
// the command audit trail and one cursor row per update source. The CHECK on
// balance is a backstop; the FOR UPDATE path in Transfer is what actually
// prevents overdrafts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		address TEXT PRIMARY KEY,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		from_address TEXT NOT NULL,
		to_address TEXT NOT NULL,
		amount BIGINT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		chat_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_from_address_idx ON transactions (from_address)`,
	`CREATE INDEX IF NOT EXISTS transactions_to_address_idx ON transactions (to_address)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id)`,
	`CREATE TABLE IF NOT EXISTS command_logs (
		id BIGSERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		command TEXT NOT NULL,
		message TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		source TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS command_logs_chat_id_idx ON command_logs (chat_id)`,
	`CREATE INDEX IF NOT EXISTS command_logs_user_id_idx ON command_logs (user_id)`,
	`CREATE TABLE IF NOT EXISTS source_cursors (
		source_id TEXT PRIMARY KEY,
		last_update_id BIGINT NOT NULL
	)`,
}
