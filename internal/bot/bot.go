package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/camera"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/history"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/llm"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot is the main Telegram bot handler.
type Bot struct {
	tg       BotAPI
	store    history.Store
	analyzer llm.Analyzer
	cam      *camera.Camera // nil when live capture is not configured
	sessions *sessionRegistry
	version  string
}

// NewBot creates a new Bot instance. cam may be nil, which disables the
// /camera command.
func NewBot(tg BotAPI, store history.Store, analyzer llm.Analyzer, cam *camera.Camera) *Bot {
	return &Bot{
		tg:       tg,
		store:    store,
		analyzer: analyzer,
		cam:      cam,
		sessions: newSessionRegistry(),
		version:  "dev",
	}
}

// SetVersion sets the string reported by /version.
func (b *Bot) SetVersion(v string) {
	b.version = v
}

// HandleUpdate is the main message router.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	session := b.sessions.get(message.From.ID)

	if ref, ok := attachmentRef(message); ok {
		log.Info().Str("mime", ref.mime).Str("caption", message.Caption).Msg("got media message")
		b.handleMediaMessage(ctx, session, message, ref)
		return
	}

	if strings.HasPrefix(message.Text, "/") {
		b.handleCommand(ctx, session, message)
		return
	}

	// Plain text without media: nothing to analyze.
	b.reply(message.Chat.ID, MsgSendMediaHint)
}

// reply sends a Markdown message to the chat, logging send failures.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.tg.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// sendTypingAction shows the "typing…" indicator while an analysis runs.
func (b *Bot) sendTypingAction(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.tg.Request(action); err != nil {
		log.Debug().Err(err).Msg("failed to send chat action")
	}
}
