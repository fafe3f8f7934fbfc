// Package main starts the ASHED bot process: one ledger over PostgreSQL,
// fronted by two Telegram bots (the open user bot and the restricted admin
// bot), each pumped by its own supervised update worker.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/bot"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/config"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/events"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/events/kafka"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/interfaces"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/ledger"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/storage/postgres"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/telegram"
)

const bootTimeout = 15 * time.Second

func main() {
	log.SetPrefix("[ASHED] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Boot phase: anything failing here aborts the process. After boot, all
	// errors are handled inside the workers and the process runs until a
	// shutdown signal.
	bootCtx, cancel := context.WithTimeout(ctx, bootTimeout)
	store, err := postgres.Open(bootCtx, cfg.DSN(), cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("connect to storage: %v", err)
	}
	defer store.Close()

	if err := store.Init(bootCtx); err != nil {
		log.Fatalf("initialize schema: %v", err)
	}

	userClient := telegram.NewClient(cfg.UserBotToken)
	adminClient := telegram.NewClient(cfg.AdminBotToken)
	for _, client := range []*telegram.Client{userClient, adminClient} {
		me, err := client.GetMe(bootCtx)
		if err != nil {
			log.Fatalf("verify bot token %s: %v", client.SourceTag(), err)
		}
		log.Printf("token %s verified: %s", client.SourceTag(), me.FirstName)
	}
	cancel()

	var publisher interfaces.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("publishing transfer events to %v", cfg.KafkaBrokers)
	}

	ledgerService := ledger.NewService(store, publisher)
	handler := bot.NewHandler(ledgerService, store, cfg.AdminChatID)

	workerCfg := bot.WorkerConfig{
		PollTimeout:  cfg.PollTimeout,
		IdleDelay:    cfg.IdleDelay,
		ErrorBackoff: cfg.ErrorBackoff,
	}
	workers := []*bot.Worker{
		bot.NewWorker(bot.Source{
			ID:     userClient.SourceTag(),
			Client: userClient,
		}, handler, store, workerCfg),
		bot.NewWorker(bot.Source{
			ID:            adminClient.SourceTag(),
			Client:        adminClient,
			Restricted:    true,
			AllowedChatID: cfg.AdminChatID,
		}, handler, store, workerCfg),
	}

	log.Printf("admin source restricted to chat %d", cfg.AdminChatID)
	bot.NewSupervisor(workers, cfg.RestartDelay).Run(ctx)
	log.Println("shutdown complete")
}
