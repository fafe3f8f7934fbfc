package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/interfaces"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/telegram"
)

// Transport is the slice of the Telegram client a worker drives.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// CommandHandler turns one inbound event into a typed outcome.
type CommandHandler interface {
	Handle(ctx context.Context, ev Event) Outcome
}

// Source describes one inbound update stream: a bot credential plus its
// authorization policy.
type Source struct {
	ID     string // stable identifier, also the cursor key
	Client Transport

	// Restricted sources honor events only from AllowedChatID; everything
	// else is dropped without a handler call or a reply.
	Restricted    bool
	AllowedChatID int64
}

// WorkerConfig carries the loop timings.
type WorkerConfig struct {
	PollTimeout  time.Duration // long-poll wait passed to getUpdates
	IdleDelay    time.Duration // sleep after an empty batch
	ErrorBackoff time.Duration // sleep after a transport or storage failure
}

func (c *WorkerConfig) applyDefaults() {
	if c.PollTimeout <= 0 {
		c.PollTimeout = 30 * time.Second
	}
	if c.IdleDelay <= 0 {
		c.IdleDelay = time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = 5 * time.Second
	}
}

// Worker owns one source's cursor and pumps its updates through the handler,
// strictly in increasing update-id order, one at a time. It is the only
// goroutine that reads or advances that cursor.
type Worker struct {
	source  Source
	handler CommandHandler
	cursors interfaces.CursorStore
	cfg     WorkerConfig
	offset  int64
}

func NewWorker(source Source, handler CommandHandler, cursors interfaces.CursorStore, cfg WorkerConfig) *Worker {
	cfg.applyDefaults()
	return &Worker{
		source:  source,
		handler: handler,
		cursors: cursors,
		cfg:     cfg,
	}
}

// Run pumps updates until ctx is canceled, returning nil on a clean
// shutdown. Fetch and dispatch failures are logged and retried with backoff;
// the only other way out is a cursor that cannot be loaded at startup.
func (w *Worker) Run(ctx context.Context) error {
	offset, err := w.cursors.LoadCursor(ctx, w.source.ID)
	if err != nil {
		return fmt.Errorf("load cursor for %s: %w", w.source.ID, err)
	}
	w.offset = offset
	log.Printf("worker %s: resuming after update %d", w.source.ID, w.offset)

	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, err := w.source.Client.GetUpdates(ctx, w.offset+1, w.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("worker %s: fetch updates: %v", w.source.ID, err)
			if !w.sleep(ctx, w.cfg.ErrorBackoff) {
				return nil
			}
			continue
		}
		if len(updates) == 0 {
			if !w.sleep(ctx, w.cfg.IdleDelay) {
				return nil
			}
			continue
		}
		w.dispatch(ctx, updates)
	}
}

func (w *Worker) dispatch(ctx context.Context, updates []telegram.Update) {
	for _, update := range updates {
		if ctx.Err() != nil {
			return
		}
		if update.UpdateID <= w.offset {
			continue
		}

		if w.source.Restricted && !w.authorized(update) {
			// Drop silently but still advance: unauthorized traffic must
			// never stall the stream.
			log.Printf("worker %s: dropped update %d from unauthorized origin", w.source.ID, update.UpdateID)
			w.advance(ctx, update.UpdateID)
			continue
		}

		msg := update.Message
		if msg == nil || msg.From == nil {
			w.advance(ctx, update.UpdateID)
			continue
		}

		outcome := w.handler.Handle(ctx, Event{
			Source: w.source.ID,
			Origin: models.Origin{ChatID: msg.Chat.ID, UserID: msg.From.ID},
			Text:   msg.Text,
		})

		if outcome.Kind == OutcomeTransient {
			// Storage is unavailable. Keep the cursor where it is so the
			// update is fetched again, and pause before the next attempt.
			log.Printf("worker %s: transient failure on update %d, backing off", w.source.ID, update.UpdateID)
			w.sleep(ctx, w.cfg.ErrorBackoff)
			return
		}

		if outcome.Reply != "" {
			if err := w.source.Client.SendMessage(ctx, msg.Chat.ID, outcome.Reply); err != nil {
				log.Printf("worker %s: send reply for update %d: %v", w.source.ID, update.UpdateID, err)
			}
		}
		w.advance(ctx, update.UpdateID)
	}
}

// authorized is the pure origin check for restricted sources.
func (w *Worker) authorized(update telegram.Update) bool {
	return update.Message != nil && update.Message.Chat.ID == w.source.AllowedChatID
}

// advance moves the cursor past id, in memory first and then durably. A
// failed durable write is logged only: the in-memory cursor still guards this
// run against re-dispatch, and a restart replays at most the updates since
// the last durable write. At least once, never lost.
func (w *Worker) advance(ctx context.Context, id int64) {
	w.offset = id
	if err := w.cursors.SaveCursor(ctx, w.source.ID, id); err != nil {
		log.Printf("worker %s: save cursor %d: %v", w.source.ID, id, err)
	}
}

// sleep waits for d or until ctx is canceled, reporting whether the loop
// should keep going.
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
