package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/phrazzld/ankibot/internal/anki"
	"github.com/phrazzld/ankibot/internal/cache"
	"github.com/phrazzld/ankibot/internal/config"
	"github.com/phrazzld/ankibot/internal/domain"
	"github.com/phrazzld/ankibot/internal/translation"
)

// Request validation limits. The byte limit keeps "retry:<text>" inside
// Telegram's 64-byte callback-data cap.
const (
	maxRequestSpaces = 4
	maxRequestBytes  = 58 // 64 - len("retry:")
)

// Callback actions understood by HandleCallback.
const (
	callbackRetry     = "retry"
	callbackAddToAnki = "add_anki"
)

// Bot orchestrates the full request flow: validate input, translate, cache
// the result behind a token, render interactive controls, and on an "add"
// activation drive a sync session that materializes the cached translation
// as flashcards.
type Bot struct {
	logger         *slog.Logger
	messenger      Messenger
	translator     translation.Translator
	cache          *cache.ResultCache
	openSession    SessionFactory
	profiles       map[int64]config.UserProfile
	sourceLanguage string
}

// New creates a Bot. It returns an error if any required dependency is nil.
func New(
	logger *slog.Logger,
	messenger Messenger,
	translator translation.Translator,
	resultCache *cache.ResultCache,
	openSession SessionFactory,
	profiles map[int64]config.UserProfile,
	sourceLanguage string,
) (*Bot, error) {
	if messenger == nil {
		return nil, errors.New("messenger cannot be nil")
	}
	if translator == nil {
		return nil, errors.New("translator cannot be nil")
	}
	if resultCache == nil {
		return nil, errors.New("result cache cannot be nil")
	}
	if openSession == nil {
		return nil, errors.New("session factory cannot be nil")
	}
	if len(profiles) == 0 {
		return nil, errors.New("at least one user profile is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		logger:         logger.With(slog.String("component", "bot")),
		messenger:      messenger,
		translator:     translator,
		cache:          resultCache,
		openSession:    openSession,
		profiles:       profiles,
		sourceLanguage: sourceLanguage,
	}, nil
}

// IsAuthorized reports whether the chat ID belongs to a configured user.
func (b *Bot) IsAuthorized(chatID int64) bool {
	_, ok := b.profiles[chatID]
	return ok
}

// HandleMessage processes one inbound message: slash commands are answered
// directly, everything else is treated as a translation request.
// Unauthorized requesters get no response at all.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) {
	profile, ok := b.profiles[chatID]
	if !ok {
		b.logger.Warn("unauthorized requester", "chat_id", chatID)
		return
	}

	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		if text == "/start" {
			b.send(chatID, "Yeah sure let's go 🫠")
		} else {
			b.send(chatID, "Sorry what? 🫠")
		}
		return
	}

	b.translate(ctx, chatID, profile, text)
}

// HandleCallback processes one control activation. The payload format is
// "<action>:<argument>"; malformed payloads are logged and ignored, never
// surfaced to the requester.
func (b *Bot) HandleCallback(ctx context.Context, chatID int64, data string) {
	profile, ok := b.profiles[chatID]
	if !ok {
		b.logger.Warn("unauthorized requester", "chat_id", chatID)
		return
	}

	action, arg, ok := parseCallback(data)
	if !ok {
		b.logger.Warn("malformed callback data", "chat_id", chatID, "data", data)
		return
	}

	switch action {
	case callbackRetry:
		b.translate(ctx, chatID, profile, arg)
	case callbackAddToAnki:
		tr, ok := b.cache.Get(arg)
		if !ok {
			b.send(chatID, "Translation is stale, try another one or retry this one 🙈")
			return
		}
		b.addToAnki(ctx, chatID, profile, tr)
	default:
		b.logger.Warn("unknown callback action", "chat_id", chatID, "action", action)
	}
}

// parseCallback splits "<action>:<argument>". Both parts must be non-empty.
func parseCallback(data string) (action, arg string, ok bool) {
	pos := strings.Index(data, ":")
	if pos <= 0 || pos == len(data)-1 {
		return "", "", false
	}
	return data[:pos], data[pos+1:], true
}

// validateRequest rejects request text before any external call is made.
func validateRequest(text string) error {
	if strings.Count(text, " ") > maxRequestSpaces {
		return fmt.Errorf("too many words: more than %d spaces", maxRequestSpaces)
	}

	if len(text) > maxRequestBytes {
		return fmt.Errorf("too long: more than %d bytes", maxRequestBytes)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '\'' || r == '-' {
			continue
		}
		return fmt.Errorf("disallowed character %q", r)
	}

	return nil
}

// translate runs one analysis request end to end: validation, translator
// call, caching, and the reply with its interactive controls.
func (b *Bot) translate(ctx context.Context, chatID int64, profile config.UserProfile, request string) {
	if err := validateRequest(request); err != nil {
		// User error, not a system error.
		b.logger.Debug("request rejected", "chat_id", chatID, "reason", err)
		b.send(chatID, "Are you kidding me? 🫠 Go to Google Translate or smth.")
		return
	}

	tr, err := b.translator.Translate(ctx, request)
	if err != nil {
		b.logger.Error("translation failed", "chat_id", chatID, "request", request, "error", err)
		b.send(chatID, fmt.Sprintf("Oh no! Error happened! 😮\n```\n%v\n```", err))
		return
	}

	token := b.cache.Put(tr)

	actions := []Action{
		{
			Label: fmt.Sprintf("Add translations to Anki deck %q", profile.Deck),
			Data:  callbackAddToAnki + ":" + token,
		},
		{
			Label: "Retry translation",
			Data:  callbackRetry + ":" + request,
		},
	}

	if err := b.messenger.SendMessageWithActions(chatID, formatTranslation(tr, b.sourceLanguage), actions); err != nil {
		b.logger.Error("failed to send translation", "chat_id", chatID, "error", err)
	}
}

// addToAnki materializes a cached translation as flashcards: two cards per
// sense (forward and reverse), applied through one sync session and pushed
// back to the server.
func (b *Bot) addToAnki(ctx context.Context, chatID int64, profile config.UserProfile, tr *domain.Translation) {
	sess, err := b.openSession(ctx, anki.Credentials{
		Endpoint: profile.SyncEndpoint,
		Username: profile.Username,
		Password: profile.Password,
	})
	if err != nil {
		b.reportSyncFailure(chatID, err)
		return
	}
	defer sess.Close()

	cardsAdded := 0
	for i := range tr.Senses {
		sense := &tr.Senses[i]

		front, back := forwardCard(sense)
		if err := sess.AddCard(profile.Deck, front, back); err != nil {
			b.reportSyncFailure(chatID, err)
			return
		}

		front, back = reverseCard(sense)
		if err := sess.AddCard(profile.Deck, front, back); err != nil {
			b.reportSyncFailure(chatID, err)
			return
		}

		cardsAdded += 2
	}

	if err := sess.Push(ctx); err != nil {
		b.reportSyncFailure(chatID, err)
		return
	}

	b.logger.Info("anki cards added",
		"chat_id", chatID,
		"request", tr.Request,
		"cards", cardsAdded)

	b.send(chatID, fmt.Sprintf(
		"Added %d Anki cards for *%s* 😎\n\n"+
			"✅ Anki collection fetched\n"+
			"✅ Cards added\n"+
			"✅ Collection synced back to server\n\n"+
			"Don't forget to sync!",
		cardsAdded, tr.Request))
}

// reportSyncFailure maps a session failure to exactly one distinct
// user-visible message. The upload case matters most: cards were added
// locally but never reached the server.
func (b *Bot) reportSyncFailure(chatID int64, err error) {
	b.logger.Error("anki sync failed", "chat_id", chatID, "error", err)

	switch {
	case errors.Is(err, anki.ErrLoginFailed):
		b.send(chatID, fmt.Sprintf(
			"Oh no! Could not authenticate with Anki sync server! 😮\n"+
				"Check your username/password in config.\n```\n%v\n```", err))
	case errors.Is(err, anki.ErrDownloadFailed):
		b.send(chatID, fmt.Sprintf(
			"Oh no! Could not download Anki collection! 😮\n"+
				"Check if your sync server is running.\n```\n%v\n```", err))
	case errors.Is(err, anki.ErrUploadFailed):
		b.send(chatID, fmt.Sprintf(
			"Oh no! Could not sync Anki collection back to the server! 😮\n"+
				"Cards may have been added locally but not synced.\n```\n%v\n```", err))
	case errors.Is(err, anki.ErrNoNotetype):
		b.send(chatID, fmt.Sprintf(
			"Oh no! Your Anki collection has no note types to build cards from! 😮\n```\n%v\n```", err))
	default:
		b.send(chatID, fmt.Sprintf("Oh no! Unexpected error! 😮\n```\n%v\n```", err))
	}
}

// send delivers a message, logging delivery failures.
func (b *Bot) send(chatID int64, text string) {
	if err := b.messenger.SendMessage(chatID, text); err != nil {
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
