package interfaces

import (
	"context"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
)

// LedgerStore owns account and transaction state. Implementations guarantee
// that Transfer executes as a single atomic unit and that concurrent
// transfers debiting the same sender serialize on a transaction-scoped
// exclusive lock.
type LedgerStore interface {
	// CreateAccount inserts the account with a zero balance if it does not
	// exist yet. Calling it again for an existing address is a no-op.
	CreateAccount(ctx context.Context, address string) error

	// Credit adds amount to an existing account and returns the new balance.
	Credit(ctx context.Context, address string, amount int64) (int64, error)

	// Transfer atomically debits from, credits to and appends the transaction
	// row. It returns the recorded transaction and the sender's balance after
	// the debit.
	Transfer(ctx context.Context, from, to string, amount int64, origin models.Origin) (models.Transaction, int64, error)

	// Balance returns the balance of address.
	Balance(ctx context.Context, address string) (int64, error)

	// ListAccounts returns every account ordered by address.
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// TransactionsByAddress returns up to limit transactions that involve
	// address as sender or recipient, newest first.
	TransactionsByAddress(ctx context.Context, address string, limit int) ([]models.Transaction, error)
}

// CursorStore persists per-source update offsets so a restarted worker
// resumes from the last durably recorded position instead of replaying the
// whole stream.
type CursorStore interface {
	// LoadCursor returns the highest fully processed offset for sourceID,
	// or zero if the source has never been seen.
	LoadCursor(ctx context.Context, sourceID string) (int64, error)

	// SaveCursor records offset as the highest fully processed offset.
	SaveCursor(ctx context.Context, sourceID string, offset int64) error
}

// CommandLogStore appends audit rows for inbound commands.
type CommandLogStore interface {
	SaveCommandLog(ctx context.Context, entry models.CommandLog) error
}
