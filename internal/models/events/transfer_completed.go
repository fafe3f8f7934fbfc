package events

import "time"

// TransferCompleted is published after a transfer has been committed to the
// ledger. Consumers must treat it as at-least-once.
type TransferCompleted struct {
	EventID       string    `json:"event_id"`
	TransactionID int64     `json:"transaction_id"`
	FromAddress   string    `json:"from_address"`
	ToAddress     string    `json:"to_address"`
	Amount        int64     `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}
