package main

import (
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"telegram-reminder-bot/internal/access"
	"telegram-reminder-bot/internal/clock"
	"telegram-reminder-bot/internal/config"
	"telegram-reminder-bot/internal/handlers"
	"telegram-reminder-bot/internal/notify"
	"telegram-reminder-bot/internal/scheduler"
	"telegram-reminder-bot/internal/session"
	"telegram-reminder-bot/internal/storage"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN etc.

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram")
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("storage")
	}

	clk := clock.New(cfg.TZ)
	dispatcher := &notify.Dispatcher{Bot: bot, Log: log.With().Str("comp", "notify").Logger()}

	h := &handlers.Handler{
		Bot:      bot,
		DB:       db,
		Sessions: session.NewStore(),
		Clock:    clk,
		Notify:   dispatcher,
		AdminID:  cfg.AdminChatID,
		Log:      log.With().Str("comp", "handlers").Logger(),
	}

	checker := &scheduler.Checker{
		DB:           db,
		Notify:       dispatcher,
		Clock:        clk,
		BirthdayHour: cfg.BirthdayHour,
		Log:          log.With().Str("comp", "checker").Logger(),
	}
	if _, err := scheduler.Start(checker, cfg.CheckInterval); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	gate := &access.Gate{
		DB:      db,
		Clock:   clk,
		AdminID: cfg.AdminChatID,
		Log:     log.With().Str("comp", "gate").Logger(),
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	log.Info().Str("bot", bot.Self.UserName).Msg("started")

	// Events are handled serially: one update completes before the
	// next is read, so per-actor flows never race each other.
	for upd := range updates {
		switch {
		case upd.Message != nil:
			ev := access.Event{ChatID: upd.Message.Chat.ID, Command: upd.Message.Command()}
			switch gate.Check(ev) {
			case access.Admit:
				h.HandleMessage(upd.Message)
			case access.RejectNotAccepted:
				h.SendConsentRequired(upd.Message.Chat.ID)
			case access.RejectBanned:
				log.Debug().Int64("chat_id", ev.ChatID).Msg("banned actor dropped")
			}

		case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
			cq := upd.CallbackQuery
			ev := access.Event{ChatID: cq.Message.Chat.ID, CallbackData: cq.Data}
			switch gate.Check(ev) {
			case access.Admit:
				h.HandleCallback(cq)
			default:
				// still answer so the client spinner stops
				_, _ = bot.Request(tgbotapi.NewCallback(cq.ID, ""))
			}
		}
	}
}
