package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/history"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/llm"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

// mediaRef points at a Telegram file before it has been downloaded.
type mediaRef struct {
	fileID string
	mime   string
	name   string
}

// attachmentRef extracts the analyzable media from a message, if any.
// Telegram photos carry no MIME type and are always JPEG; for the rest the
// reported MIME type decides whether the media is supported.
func attachmentRef(message *tgbotapi.Message) (mediaRef, bool) {
	switch {
	case len(message.Photo) > 0:
		largest := message.Photo[len(message.Photo)-1]
		return mediaRef{
			fileID: largest.FileID,
			mime:   "image/jpeg",
			name:   fmt.Sprintf("photo-%s.jpg", largest.FileUniqueID),
		}, true
	case message.Video != nil:
		mime := message.Video.MimeType
		if mime == "" {
			mime = "video/mp4"
		}
		return mediaRef{fileID: message.Video.FileID, mime: mime, name: message.Video.FileName}, true
	case message.VideoNote != nil:
		return mediaRef{fileID: message.VideoNote.FileID, mime: "video/mp4"}, true
	case message.Voice != nil:
		mime := message.Voice.MimeType
		if mime == "" {
			mime = "audio/ogg"
		}
		return mediaRef{fileID: message.Voice.FileID, mime: mime}, true
	case message.Audio != nil:
		mime := message.Audio.MimeType
		if mime == "" {
			mime = "audio/mpeg"
		}
		return mediaRef{fileID: message.Audio.FileID, mime: mime, name: message.Audio.FileName}, true
	case message.Document != nil:
		return mediaRef{
			fileID: message.Document.FileID,
			mime:   message.Document.MimeType,
			name:   message.Document.FileName,
		}, true
	default:
		return mediaRef{}, false
	}
}

// handleMediaMessage runs the analysis flow for uploaded media. The message
// caption is the owner's free-text context.
func (b *Bot) handleMediaMessage(ctx context.Context, session *session, message *tgbotapi.Message, ref mediaRef) {
	if media.KindFromMIME(ref.mime) == media.KindUnsupported {
		b.reply(message.Chat.ID, MsgUnsupportedMedia)
		return
	}

	fetch := func(ctx context.Context) (media.Attachment, error) {
		data, err := downloadFileID(ctx, b.tg.GetFileDirectURL, ref.fileID)
		if err != nil {
			return media.Attachment{}, err
		}
		return media.Attachment{Name: ref.name, MIME: ref.mime, Data: data}, nil
	}

	b.analyze(ctx, session, message.Chat.ID, fetch, message.Caption, MsgAnalysisFailed)
}

// analyze is the single analysis pipeline shared by uploads and camera
// captures: acquire the media, run inference, persist the history item,
// reply. fetchFailMsg is the user-facing message for acquisition failures
// (downloads and camera captures fail differently to the user).
//
// Exactly one analysis per user may be in flight; a second trigger is
// refused before any work happens.
func (b *Bot) analyze(
	ctx context.Context,
	session *session,
	chatID int64,
	fetch func(ctx context.Context) (media.Attachment, error),
	ownerContext string,
	fetchFailMsg string,
) {
	if !session.beginAnalysis() {
		b.reply(chatID, MsgAnalysisInProgress)
		return
	}
	defer session.endAnalysis()

	b.sendTypingAction(chatID)

	att, err := fetch(ctx)
	if err != nil {
		log.Error().Err(err).Int64("user_id", session.userID).Msg("failed to acquire media")
		b.reply(chatID, fetchFailMsg)
		return
	}

	interp, err := b.analyzer.Analyze(ctx, att, ownerContext)
	if err != nil {
		log.Error().Err(err).Int64("user_id", session.userID).Msg("analysis failed")
		b.reply(chatID, MsgAnalysisFailed)
		return
	}

	item := history.NewItem(
		interp.Behavior,
		interp.Explanation,
		interp.Tip,
		att.DataURL(),
		att.MIME,
		ownerContext,
	)
	session.appendHistory(b.store, item)

	b.reply(chatID, formatInterpretation(interp))
}

// handleCameraCommand captures one frame from the configured camera and
// analyzes it. Arguments after /camera become the owner context. The
// camera session is released on every path: Capture releases it on
// success, the deferred Stop covers failures.
func (b *Bot) handleCameraCommand(ctx context.Context, session *session, chatID int64, ownerContext string) {
	if b.cam == nil {
		b.reply(chatID, MsgCameraNotConfigured)
		return
	}

	fetch := func(ctx context.Context) (media.Attachment, error) {
		if err := b.cam.Start(ctx); err != nil {
			return media.Attachment{}, err
		}
		defer b.cam.Stop()
		return b.cam.Capture(ctx)
	}

	b.analyze(ctx, session, chatID, fetch, ownerContext, MsgCameraUnavailable)
}

// formatInterpretation renders the result message: the three fields plus
// the fixed disclaimer.
func formatInterpretation(interp *llm.Interpretation) string {
	return fmt.Sprintf(
		"🐶 *%s*\n\n%s\n\n💡 *Tip:* %s\n\n%s",
		escapeMarkdown(interp.Behavior),
		escapeMarkdown(interp.Explanation),
		escapeMarkdown(interp.Tip),
		MsgDisclaimer,
	)
}
