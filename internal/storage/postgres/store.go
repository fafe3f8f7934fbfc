// Package postgres implements the durable ASHED stores on PostgreSQL. The
// transfer path is the sole serialization point in the system: it locks the
// sender row with SELECT ... FOR UPDATE inside one transaction so two
// concurrent debits of the same account cannot both observe the same balance.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/interfaces"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/ledger"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
)

type Store struct {
	db *sql.DB
}

// NewStore wraps an already opened database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL, caps the pool at maxConns and verifies the
// connection with a ping.
func Open(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the tables the bot needs if they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) CreateAccount(ctx context.Context, address string) error {
	const query = `INSERT INTO accounts (address, balance) VALUES ($1, 0)
	ON CONFLICT (address) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, address)
	return err
}

func (s *Store) Credit(ctx context.Context, address string, amount int64) (int64, error) {
	const query = `UPDATE accounts SET balance = balance + $1 WHERE address = $2
	RETURNING balance`

	var balance int64
	err := s.db.QueryRowContext(ctx, query, amount, address).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ledger.ErrUnknownAccount
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Transfer runs the whole debit-verify-credit-append unit in one database
// transaction. The FOR UPDATE read on the sender row holds an exclusive,
// transaction-scoped lock until commit or rollback.
func (s *Store) Transfer(ctx context.Context, from, to string, amount int64, origin models.Origin) (models.Transaction, int64, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, 0, err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	var balance int64
	err = dbTx.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE address = $1 FOR UPDATE`, from,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		err = ledger.ErrUnknownSender
		return models.Transaction{}, 0, err
	}
	if err != nil {
		return models.Transaction{}, 0, err
	}
	if balance < amount {
		err = ledger.ErrInsufficientFunds
		return models.Transaction{}, 0, err
	}

	var exists int
	err = dbTx.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE address = $1`, to,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		err = ledger.ErrUnknownRecipient
		return models.Transaction{}, 0, err
	}
	if err != nil {
		return models.Transaction{}, 0, err
	}

	if _, err = dbTx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - $1 WHERE address = $2`, amount, from,
	); err != nil {
		return models.Transaction{}, 0, err
	}
	if _, err = dbTx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE address = $2`, amount, to,
	); err != nil {
		return models.Transaction{}, 0, err
	}

	tx := models.Transaction{
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Timestamp:   time.Now().UTC(),
		Origin:      origin,
	}
	err = dbTx.QueryRowContext(ctx,
		`INSERT INTO transactions (from_address, to_address, amount, timestamp, chat_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		tx.FromAddress, tx.ToAddress, tx.Amount, tx.Timestamp, origin.ChatID, origin.UserID,
	).Scan(&tx.ID)
	if err != nil {
		return models.Transaction{}, 0, err
	}

	if err = dbTx.Commit(); err != nil {
		return models.Transaction{}, 0, err
	}
	return tx, balance - amount, nil
}

func (s *Store) Balance(ctx context.Context, address string) (int64, error) {
	const query = `SELECT balance FROM accounts WHERE address = $1`

	var balance int64
	err := s.db.QueryRowContext(ctx, query, address).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ledger.ErrUnknownAccount
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `SELECT address, balance FROM accounts ORDER BY address`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.Address, &account.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) TransactionsByAddress(ctx context.Context, address string, limit int) ([]models.Transaction, error) {
	const query = `SELECT id, from_address, to_address, amount, timestamp, chat_id, user_id
	FROM transactions
	WHERE from_address = $1 OR to_address = $1
	ORDER BY timestamp DESC, id DESC
	LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, address, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.FromAddress,
			&tx.ToAddress,
			&tx.Amount,
			&tx.Timestamp,
			&tx.Origin.ChatID,
			&tx.Origin.UserID,
		); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Store) SaveCommandLog(ctx context.Context, entry models.CommandLog) error {
	const query = `INSERT INTO command_logs (chat_id, user_id, command, message, timestamp, source)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		entry.Origin.ChatID, entry.Origin.UserID, entry.Command, entry.Message, entry.Timestamp, entry.Source)
	return err
}

func (s *Store) LoadCursor(ctx context.Context, sourceID string) (int64, error) {
	const query = `SELECT last_update_id FROM source_cursors WHERE source_id = $1`

	var offset int64
	err := s.db.QueryRowContext(ctx, query, sourceID).Scan(&offset)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return offset, nil
}

func (s *Store) SaveCursor(ctx context.Context, sourceID string, offset int64) error {
	const query = `INSERT INTO source_cursors (source_id, last_update_id) VALUES ($1, $2)
	ON CONFLICT (source_id) DO UPDATE SET last_update_id = EXCLUDED.last_update_id`

	_, err := s.db.ExecContext(ctx, query, sourceID, offset)
	return err
}

var _ interfaces.LedgerStore = (*Store)(nil)
var _ interfaces.CursorStore = (*Store)(nil)
var _ interfaces.CommandLogStore = (*Store)(nil)
