package ledger

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/interfaces"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models/events"
)

// TransferTopic is the topic completed transfers are announced on.
const TransferTopic = "transfer_completed"

// Service implements the ASHED ledger operations on top of a LedgerStore.
// All serialization of concurrent transfers happens inside the store's
// transaction scope; the service holds no locks of its own, so it stays
// correct when several process instances share one database.
type Service struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher
}

// NewService creates a ledger service. publisher may be nil when no event
// broker is configured.
func NewService(store interfaces.LedgerStore, publisher interfaces.EventPublisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
	}
}

// AddressFor derives the account address for a user identity.
func AddressFor(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// CreateAccount creates the account for the given identity if it does not
// exist yet and returns its address. Safe to call repeatedly.
func (s *Service) CreateAccount(ctx context.Context, userID int64) (string, error) {
	address := AddressFor(userID)
	if err := s.store.CreateAccount(ctx, address); err != nil {
		return "", classify(err)
	}
	return address, nil
}

// Credit mints amount into an existing account and returns the new balance.
// This is value creation, not a transfer; no transaction row is written.
func (s *Service) Credit(ctx context.Context, address string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrNonPositiveAmount
	}
	balance, err := s.store.Credit(ctx, address, amount)
	if err != nil {
		return 0, classify(err)
	}
	return balance, nil
}

// Transfer moves amount between two existing accounts in one atomic unit and
// returns the recorded transaction together with the sender's new balance.
func (s *Service) Transfer(ctx context.Context, from, to string, amount int64, origin models.Origin) (models.Transaction, int64, error) {
	if amount <= 0 {
		return models.Transaction{}, 0, ErrNonPositiveAmount
	}
	tx, balance, err := s.store.Transfer(ctx, from, to, amount, origin)
	if err != nil {
		return models.Transaction{}, 0, classify(err)
	}
	s.publish(ctx, tx)
	return tx, balance, nil
}

// Balance returns the balance of address, or ErrUnknownAccount.
func (s *Service) Balance(ctx context.Context, address string) (int64, error) {
	balance, err := s.store.Balance(ctx, address)
	if err != nil {
		return 0, classify(err)
	}
	return balance, nil
}

// ListAccounts returns every account ordered by address.
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return accounts, nil
}

// History returns up to limit transactions involving address, newest first.
func (s *Service) History(ctx context.Context, address string, limit int) ([]models.Transaction, error) {
	txs, err := s.store.TransactionsByAddress(ctx, address, limit)
	if err != nil {
		return nil, classify(err)
	}
	return txs, nil
}

func (s *Service) publish(ctx context.Context, tx models.Transaction) {
	if s.publisher == nil {
		return
	}
	event := events.TransferCompleted{
		EventID:       uuid.New().String(),
		TransactionID: tx.ID,
		FromAddress:   tx.FromAddress,
		ToAddress:     tx.ToAddress,
		Amount:        tx.Amount,
		OccurredAt:    tx.Timestamp,
	}
	if err := s.publisher.Publish(ctx, TransferTopic, event); err != nil {
		// The transfer is already committed; the announcement is best effort.
		log.Printf("publish transfer %d: %v", tx.ID, err)
	}
}

// classify passes through validation sentinels untouched and wraps anything
// else as a retryable storage condition.
func classify(err error) error {
	if IsValidation(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
