package bot

import (
	"strconv"
	"strings"
)

// Kind enumerates the closed set of bot commands. Dispatch happens on this
// tag, never on the raw command text.
type Kind int

const (
	KindUnknown Kind = iota
	KindStart
	KindAccount
	KindMint
	KindTransfer
	KindBalance
	KindHistory
	KindListAccounts
	KindHelp
)

// AdminOnly reports whether the command may only be issued by the authorized
// admin origin.
func (k Kind) AdminOnly() bool {
	return k == KindMint || k == KindListAccounts
}

// Command is one parsed inbound command with its validated arguments.
type Command struct {
	Kind      Kind
	Name      string // first token, lowercased
	Amount    int64  // mint and transfer
	Recipient string // transfer
}

// ParseError describes why a known command's arguments were rejected.
type ParseError struct {
	Reason string
	Usage  string // usage hint, e.g. "/add_ashed <amount>"
}

func (e *ParseError) Error() string {
	return e.Reason
}

// Parse resolves one message into the command set. The first token is matched
// case-insensitively; arguments are validated here so downstream code only
// ever sees well-formed commands. A non-nil error is always a *ParseError for
// a recognized command with bad arguments.
func Parse(text string) (Command, *ParseError) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{Kind: KindUnknown}, nil
	}

	cmd := Command{Name: strings.ToLower(fields[0])}
	switch cmd.Name {
	case "/start":
		cmd.Kind = KindStart
	case "/your_account":
		cmd.Kind = KindAccount
	case "/check_ashed":
		cmd.Kind = KindBalance
	case "/transaction_history":
		cmd.Kind = KindHistory
	case "/list_accounts":
		cmd.Kind = KindListAccounts
	case "/help", "/commands":
		cmd.Kind = KindHelp
	case "/add_ashed":
		cmd.Kind = KindMint
		if len(fields) < 2 {
			return cmd, &ParseError{
				Reason: "You need to specify an amount to add",
				Usage:  "/add_ashed <amount>",
			}
		}
		amount, err := parseAmount(fields[1])
		if err != nil {
			return cmd, &ParseError{
				Reason: "Amount must be a positive number",
				Usage:  "/add_ashed <amount>",
			}
		}
		cmd.Amount = amount
	case "/transfer_ashed":
		cmd.Kind = KindTransfer
		if len(fields) < 3 {
			return cmd, &ParseError{
				Reason: "You need to specify recipient and amount",
				Usage:  "/transfer_ashed <user_id> <amount>",
			}
		}
		amount, err := parseAmount(fields[2])
		if err != nil {
			return cmd, &ParseError{
				Reason: "Transfer amount must be positive",
				Usage:  "/transfer_ashed <user_id> <amount>",
			}
		}
		cmd.Recipient = fields[1]
		cmd.Amount = amount
	default:
		cmd.Kind = KindUnknown
	}
	return cmd, nil
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, strconv.ErrRange
	}
	return amount, nil
}
