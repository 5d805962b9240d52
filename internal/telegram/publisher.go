package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/bitcalbot/internal/formatter"
)

// sendTimeout bounds a single Telegram API call. Video posts make Telegram
// fetch the file from its URL, so this is generous.
const sendTimeout = 2 * time.Minute

// Sender is the subset of *bot.Bot used for publishing.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendVideo(ctx context.Context, params *bot.SendVideoParams) (*models.Message, error)
}

// Publisher posts formatted events to one chat.
type Publisher struct {
	sender Sender
	chatID any
	log    *slog.Logger
}

// NewPublisher returns a publisher posting to chatID, an int64 id or an "@channel" name.
func NewPublisher(sender Sender, chatID any, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		sender: sender,
		chatID: chatID,
		log:    logger.With("component", "publisher", "chat_id", chatID),
	}
}

// Publish sends msg as a single post: a video or photo with the body as
// caption when the message has media, a text message otherwise. Failures are
// logged and reported as false.
func (p *Publisher) Publish(ctx context.Context, msg formatter.Message) bool {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	var (
		sent *models.Message
		err  error
		kind = "text"
	)

	switch {
	case msg.HasMedia() && msg.MediaKind == formatter.MediaVideo:
		kind = "video"
		sent, err = p.sender.SendVideo(sendCtx, &bot.SendVideoParams{
			ChatID:    p.chatID,
			Video:     &models.InputFileString{Data: msg.MediaURL},
			Caption:   msg.Body,
			ParseMode: models.ParseModeHTML,
		})
	case msg.HasMedia():
		kind = "photo"
		sent, err = p.sender.SendPhoto(sendCtx, &bot.SendPhotoParams{
			ChatID:    p.chatID,
			Photo:     &models.InputFileString{Data: msg.MediaURL},
			Caption:   msg.Body,
			ParseMode: models.ParseModeHTML,
		})
	default:
		sent, err = p.sender.SendMessage(sendCtx, &bot.SendMessageParams{
			ChatID:             p.chatID,
			Text:               msg.Body,
			ParseMode:          models.ParseModeHTML,
			LinkPreviewOptions: linkPreview(msg.Body),
		})
	}

	if err != nil {
		p.log.ErrorContext(ctx, "Failed to post to Telegram", "kind", kind, "media_url", msg.MediaURL, "error", err)
		return false
	}

	attrs := []any{"kind", kind}
	if sent != nil {
		attrs = append(attrs, "message_id", sent.ID)
	}
	p.log.InfoContext(ctx, "Successfully posted event to Telegram", attrs...)
	return true
}

// linkPreview enables the preview only when the text references a link.
func linkPreview(text string) *models.LinkPreviewOptions {
	disabled := !strings.Contains(text, "http")
	return &models.LinkPreviewOptions{IsDisabled: &disabled}
}

// DryRunPublisher logs messages instead of sending them.
type DryRunPublisher struct {
	log *slog.Logger
}

// NewDryRunPublisher returns a publisher that only logs.
func NewDryRunPublisher(logger *slog.Logger) *DryRunPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunPublisher{log: logger.With("component", "publisher", "dry_run", true)}
}

// Publish logs msg and reports success.
func (p *DryRunPublisher) Publish(ctx context.Context, msg formatter.Message) bool {
	p.log.InfoContext(ctx, "Dry run, not posting",
		"body", msg.Body,
		"media_url", msg.MediaURL,
		"media_kind", string(msg.MediaKind))
	return true
}
