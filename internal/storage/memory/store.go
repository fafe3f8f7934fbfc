// Package memory is an in-memory implementation of the ASHED stores. It is
// used by tests and local runs without a database; one mutex guards all state,
// which gives Transfer the same all-or-nothing, serialized semantics as the
// PostgreSQL row lock within a single process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/interfaces"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/ledger"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
)

type Store struct {
	mu       sync.Mutex
	balances map[string]int64
	txs      []models.Transaction
	nextTxID int64
	logs     []models.CommandLog
	cursors  map[string]int64
}

func NewStore() *Store {
	return &Store{
		balances: make(map[string]int64),
		cursors:  make(map[string]int64),
		nextTxID: 1,
	}
}

func (s *Store) CreateAccount(ctx context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.balances[address]; !exists {
		s.balances[address] = 0
	}
	return nil
}

func (s *Store) Credit(ctx context.Context, address string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, exists := s.balances[address]
	if !exists {
		return 0, ledger.ErrUnknownAccount
	}
	s.balances[address] = balance + amount
	return s.balances[address], nil
}

func (s *Store) Transfer(ctx context.Context, from, to string, amount int64, origin models.Origin) (models.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, exists := s.balances[from]
	if !exists {
		return models.Transaction{}, 0, ledger.ErrUnknownSender
	}
	if balance < amount {
		return models.Transaction{}, 0, ledger.ErrInsufficientFunds
	}
	if _, exists := s.balances[to]; !exists {
		return models.Transaction{}, 0, ledger.ErrUnknownRecipient
	}

	s.balances[from] -= amount
	s.balances[to] += amount

	tx := models.Transaction{
		ID:          s.nextTxID,
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Timestamp:   time.Now().UTC(),
		Origin:      origin,
	}
	s.nextTxID++
	s.txs = append(s.txs, tx)
	return tx, s.balances[from], nil
}

func (s *Store) Balance(ctx context.Context, address string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, exists := s.balances[address]
	if !exists {
		return 0, ledger.ErrUnknownAccount
	}
	return balance, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]models.Account, 0, len(s.balances))
	for address, balance := range s.balances {
		accounts = append(accounts, models.Account{Address: address, Balance: balance})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Address < accounts[j].Address })
	return accounts, nil
}

func (s *Store) TransactionsByAddress(ctx context.Context, address string, limit int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Transaction
	// Newest first: the slice is append-only, so walk it backwards.
	for i := len(s.txs) - 1; i >= 0 && len(result) < limit; i-- {
		tx := s.txs[i]
		if tx.FromAddress == address || tx.ToAddress == address {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (s *Store) SaveCommandLog(ctx context.Context, entry models.CommandLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, entry)
	return nil
}

// CommandLogs returns a copy of the audit trail, oldest first.
func (s *Store) CommandLogs() []models.CommandLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.CommandLog, len(s.logs))
	copy(copied, s.logs)
	return copied
}

func (s *Store) LoadCursor(ctx context.Context, sourceID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cursors[sourceID], nil
}

func (s *Store) SaveCursor(ctx context.Context, sourceID string, offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursors[sourceID] = offset
	return nil
}

// TransactionCount reports how many transfers have been recorded.
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.txs)
}

var _ interfaces.LedgerStore = (*Store)(nil)
var _ interfaces.CursorStore = (*Store)(nil)
var _ interfaces.CommandLogStore = (*Store)(nil)
