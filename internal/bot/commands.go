package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

// Command defines a bot command with its Telegram menu description.
type Command struct {
	Name        string
	Description string
}

// botCommands is the single source of truth for command definitions.
var botCommands = []Command{
	{Name: "camera", Description: "Analyze a live frame from the camera"},
	{Name: "history", Description: "Show your last 10 analyses"},
	{Name: "clear", Description: "Clear your analysis history"},
	{Name: "version", Description: "Show version info"},
}

// RegisterCommands sets the bot's command menu in Telegram.
// This should be called once at startup.
func RegisterCommands(tg *tgbotapi.BotAPI) {
	commands := make([]tgbotapi.BotCommand, len(botCommands))
	for i, cmd := range botCommands {
		commands[i] = tgbotapi.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		}
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	if _, err := tg.Request(config); err != nil {
		log.Error().Err(err).Msg("failed to set bot commands")
	} else {
		log.Info().Int("count", len(commands)).Msg("registered bot commands")
	}
}

// handleCommand processes bot commands.
func (b *Bot) handleCommand(ctx context.Context, session *session, message *tgbotapi.Message) {
	command, args := parseCommand(message.Text)
	chatID := message.Chat.ID

	switch command {
	case "/start", "/help":
		b.reply(chatID, formatMessage(msgStartHelp))
	case "/camera":
		b.handleCameraCommand(ctx, session, chatID, strings.Join(args, " "))
	case "/history":
		b.handleHistoryCommand(session, chatID)
	case "/clear":
		session.clearHistory(b.store)
		b.reply(chatID, MsgHistoryCleared)
	case "/version":
		b.reply(chatID, fmt.Sprintf(MsgVersionInfo, b.version))
	default:
		b.reply(chatID, MsgSendMediaHint)
	}
}

// handleHistoryCommand renders the capped history list, newest first. Each
// entry shows a media-kind icon, the behavior label and the timestamp.
func (b *Bot) handleHistoryCommand(session *session, chatID int64) {
	items := session.history(b.store)
	if len(items) == 0 {
		b.reply(chatID, MsgHistoryEmpty)
		return
	}

	var sb strings.Builder
	sb.WriteString(MsgHistoryHeader)
	for i, item := range items {
		kind := media.KindFromMIME(item.MediaType)
		fmt.Fprintf(&sb, "%d. %s *%s* — %s\n", i+1, kind.Icon(), escapeMarkdown(item.Behavior), item.Timestamp)
	}
	b.reply(chatID, sb.String())
}
