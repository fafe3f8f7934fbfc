package ledger

import "errors"

// Sentinel errors surfaced by the ledger. Validation errors are terminal for
// the call that produced them; ErrStorageUnavailable is the only retryable
// condition.
var (
	ErrNonPositiveAmount  = errors.New("ledger: amount must be a positive integer")
	ErrUnknownAccount     = errors.New("ledger: unknown account")
	ErrUnknownSender      = errors.New("ledger: unknown sender")
	ErrUnknownRecipient   = errors.New("ledger: unknown recipient")
	ErrInsufficientFunds  = errors.New("ledger: insufficient funds")
	ErrStorageUnavailable = errors.New("ledger: storage unavailable")
)

// IsValidation reports whether err is one of the terminal validation
// failures, as opposed to a retryable storage condition.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrUnknownSender) ||
		errors.Is(err, ErrUnknownRecipient) ||
		errors.Is(err, ErrInsufficientFunds)
}
