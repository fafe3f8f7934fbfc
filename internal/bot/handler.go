// Package bot contains the chat-facing half of the system: command parsing,
// the command handler, and the per-source update workers with their
// supervisor.
package bot

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/interfaces"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/ledger"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
)

// historyLimit caps how many transactions /transaction_history shows.
const historyLimit = 10

// Event is one authorized inbound command delivered by a source worker.
type Event struct {
	Source string // audit tag of the originating bot credential
	Origin models.Origin
	Text   string
}

// OutcomeKind classifies what happened to one handled event.
type OutcomeKind int

const (
	OutcomeOk OutcomeKind = iota
	OutcomeValidationFailed
	OutcomeUnauthorized
	OutcomeLedgerRejected
	// OutcomeTransient means storage was unavailable. The handler never
	// retries; the worker keeps the cursor in place and retries the event.
	OutcomeTransient
)

// Outcome is the typed result of handling one event. Reply is the rendered
// message to send back; an empty Reply means stay silent.
type Outcome struct {
	Kind  OutcomeKind
	Reply string
}

// Handler maps parsed commands to ledger calls and renders replies. It is
// pure with respect to retries: every call produces exactly one outcome.
type Handler struct {
	ledger      *ledger.Service
	logs        interfaces.CommandLogStore
	adminChatID int64
}

func NewHandler(svc *ledger.Service, logs interfaces.CommandLogStore, adminChatID int64) *Handler {
	return &Handler{
		ledger:      svc,
		logs:        logs,
		adminChatID: adminChatID,
	}
}

// Handle processes one event and returns its typed outcome.
func (h *Handler) Handle(ctx context.Context, ev Event) Outcome {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return Outcome{Kind: OutcomeOk}
	}

	cmd, parseErr := Parse(text)
	h.audit(ctx, ev, cmd, text)

	// Admin commands arriving here from any chat but the admin's come from
	// the open front end; refuse with an explanation. Unauthorized traffic on
	// the restricted source never reaches the handler at all.
	if cmd.Kind.AdminOnly() && ev.Origin.ChatID != h.adminChatID {
		return Outcome{Kind: OutcomeUnauthorized, Reply: adminOnlyReply()}
	}

	if parseErr != nil {
		return Outcome{Kind: OutcomeValidationFailed, Reply: usageReply(parseErr)}
	}

	switch cmd.Kind {
	case KindStart:
		return Outcome{Kind: OutcomeOk, Reply: startReply()}
	case KindHelp:
		return Outcome{Kind: OutcomeOk, Reply: helpReply()}
	case KindAccount:
		return h.account(ctx, ev)
	case KindMint:
		return h.mint(ctx, ev, cmd)
	case KindTransfer:
		return h.transfer(ctx, ev, cmd)
	case KindBalance:
		return h.balance(ctx, ev)
	case KindHistory:
		return h.history(ctx, ev)
	case KindListAccounts:
		return h.listAccounts(ctx)
	default:
		return Outcome{Kind: OutcomeValidationFailed, Reply: unknownReply()}
	}
}

func (h *Handler) account(ctx context.Context, ev Event) Outcome {
	address, err := h.ledger.CreateAccount(ctx, ev.Origin.UserID)
	if err != nil {
		return h.failure(err)
	}
	balance, err := h.ledger.Balance(ctx, address)
	if err != nil {
		return h.failure(err)
	}
	return Outcome{Kind: OutcomeOk, Reply: accountReply(address, balance)}
}

func (h *Handler) mint(ctx context.Context, ev Event, cmd Command) Outcome {
	address := ledger.AddressFor(ev.Origin.UserID)
	balance, err := h.ledger.Credit(ctx, address, cmd.Amount)
	if err != nil {
		return h.failure(err)
	}
	return Outcome{Kind: OutcomeOk, Reply: mintReply(cmd.Amount, balance)}
}

func (h *Handler) transfer(ctx context.Context, ev Event, cmd Command) Outcome {
	from := ledger.AddressFor(ev.Origin.UserID)
	tx, balance, err := h.ledger.Transfer(ctx, from, cmd.Recipient, cmd.Amount, ev.Origin)
	if err != nil {
		return h.failure(err)
	}
	return Outcome{Kind: OutcomeOk, Reply: transferReply(tx, balance)}
}

func (h *Handler) balance(ctx context.Context, ev Event) Outcome {
	address := ledger.AddressFor(ev.Origin.UserID)
	balance, err := h.ledger.Balance(ctx, address)
	if err != nil {
		return h.failure(err)
	}
	return Outcome{Kind: OutcomeOk, Reply: balanceReply(address, balance)}
}

func (h *Handler) history(ctx context.Context, ev Event) Outcome {
	address := ledger.AddressFor(ev.Origin.UserID)
	txs, err := h.ledger.History(ctx, address, historyLimit)
	if err != nil {
		return h.failure(err)
	}
	return Outcome{Kind: OutcomeOk, Reply: historyReply(address, txs)}
}

func (h *Handler) listAccounts(ctx context.Context) Outcome {
	accounts, err := h.ledger.ListAccounts(ctx)
	if err != nil {
		return h.failure(err)
	}
	return Outcome{Kind: OutcomeOk, Reply: listAccountsReply(accounts)}
}

// failure translates a ledger error into an outcome: validation failures get
// a terminal reply, everything else is transient and stays silent so the
// worker can retry the event without spamming the chat.
func (h *Handler) failure(err error) Outcome {
	if ledger.IsValidation(err) {
		return Outcome{Kind: OutcomeLedgerRejected, Reply: rejectionReply(err)}
	}
	if !errors.Is(err, ledger.ErrStorageUnavailable) {
		log.Printf("handler: unexpected ledger error: %v", err)
	}
	return Outcome{Kind: OutcomeTransient}
}

func (h *Handler) audit(ctx context.Context, ev Event, cmd Command, text string) {
	if h.logs == nil {
		return
	}
	entry := models.CommandLog{
		Origin:    ev.Origin,
		Command:   cmd.Name,
		Message:   text,
		Timestamp: time.Now().UTC(),
		Source:    ev.Source,
	}
	// Audit is best effort; a failed write never blocks the command.
	if err := h.logs.SaveCommandLog(ctx, entry); err != nil {
		log.Printf("handler: save command log: %v", err)
	}
}
