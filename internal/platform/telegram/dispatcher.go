package telegram

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/phrazzld/ankibot/internal/bot"
)

// Dispatcher runs the long-polling loop and routes updates to the
// orchestrator. Each update is handled on its own goroutine so a slow sync
// session does not block unrelated chats.
type Dispatcher struct {
	logger      *slog.Logger
	api         *tgbotapi.BotAPI
	bot         *bot.Bot
	pollTimeout int
}

// NewDispatcher creates a Dispatcher. The poll timeout is in seconds and is
// passed straight to Telegram's getUpdates call.
func NewDispatcher(logger *slog.Logger, api *tgbotapi.BotAPI, b *bot.Bot, pollTimeout int) (*Dispatcher, error) {
	if api == nil {
		return nil, errors.New("telegram api cannot be nil")
	}
	if b == nil {
		return nil, errors.New("bot cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		logger:      logger.With(slog.String("component", "telegram_dispatcher")),
		api:         api,
		bot:         b,
		pollTimeout: pollTimeout,
	}, nil
}

// Run polls for updates until the context is canceled. It only returns after
// the update channel has been drained.
func (d *Dispatcher) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = d.pollTimeout
	cfg.AllowedUpdates = []string{"message", "callback_query"}

	updates := d.api.GetUpdatesChan(cfg)
	d.logger.Info("telegram polling started", "timeout_seconds", d.pollTimeout)

	for {
		select {
		case <-ctx.Done():
			d.api.StopReceivingUpdates()
			d.logger.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go d.dispatch(ctx, update)
		}
	}
}

// dispatch routes a single update. Callback queries are acknowledged before
// handling so the client's spinner clears even when a sync session takes a
// while.
func (d *Dispatcher) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		d.bot.HandleMessage(ctx, msg.Chat.ID, msg.Text)

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil {
			d.logger.Warn("callback query without message", "callback_id", cb.ID)
			return
		}

		chatID := cb.Message.Chat.ID
		if d.bot.IsAuthorized(chatID) {
			if _, err := d.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
				d.logger.Warn("failed to acknowledge callback", "chat_id", chatID, "error", err)
			}
		}
		d.bot.HandleCallback(ctx, chatID, cb.Data)
	}
}
