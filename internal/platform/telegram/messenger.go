// Package telegram adapts the Telegram Bot API to the transport boundaries
// the orchestration core defines. It owns the long-polling loop and message
// delivery; all decisions about what to say live in the bot package.
package telegram

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/phrazzld/ankibot/internal/bot"
)

// Messenger delivers messages through the Telegram Bot API. Replies are sent
// with Markdown parsing enabled, matching the markup produced by the
// formatting layer.
type Messenger struct {
	api *tgbotapi.BotAPI
}

// NewMessenger creates a Messenger. The API handle must be non-nil.
func NewMessenger(api *tgbotapi.BotAPI) (*Messenger, error) {
	if api == nil {
		return nil, errors.New("telegram api cannot be nil")
	}
	return &Messenger{api: api}, nil
}

// SendMessage sends a plain Markdown message to the chat.
func (m *Messenger) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMessageWithActions sends a Markdown message with an inline keyboard,
// one button per action, each on its own row.
func (m *Messenger) SendMessageWithActions(chatID int64, text string, actions []bot.Action) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, action := range actions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(action.Label, action.Data),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message with actions: %w", err)
	}
	return nil
}
