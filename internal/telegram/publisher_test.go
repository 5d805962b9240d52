package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/bitcalbot/internal/formatter"
	"github.com/edgard/bitcalbot/internal/logger"
)

type fakeSender struct {
	err      error
	messages []*bot.SendMessageParams
	photos   []*bot.SendPhotoParams
	videos   []*bot.SendVideoParams
}

func (f *fakeSender) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.messages = append(f.messages, p)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: len(f.messages)}, nil
}

func (f *fakeSender) SendPhoto(_ context.Context, p *bot.SendPhotoParams) (*models.Message, error) {
	f.photos = append(f.photos, p)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: len(f.photos)}, nil
}

func (f *fakeSender) SendVideo(_ context.Context, p *bot.SendVideoParams) (*models.Message, error) {
	f.videos = append(f.videos, p)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: len(f.videos)}, nil
}

func TestPublishText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		wantPreviewOff bool
	}{
		{name: "body with link enables preview", body: "<b>T</b>\n\n<a href=\"https://bitcoin-calendar.org\">x</a>", wantPreviewOff: false},
		{name: "body without link disables preview", body: "<b>T</b>\n\nplain", wantPreviewOff: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &fakeSender{}
			p := NewPublisher(sender, int64(-1001), logger.Discard())

			ok := p.Publish(context.Background(), formatter.Message{Body: tt.body})
			require.True(t, ok)
			require.Len(t, sender.messages, 1)
			assert.Empty(t, sender.photos)
			assert.Empty(t, sender.videos)

			sent := sender.messages[0]
			assert.Equal(t, int64(-1001), sent.ChatID)
			assert.Equal(t, tt.body, sent.Text)
			assert.Equal(t, models.ParseModeHTML, sent.ParseMode)
			require.NotNil(t, sent.LinkPreviewOptions)
			require.NotNil(t, sent.LinkPreviewOptions.IsDisabled)
			assert.Equal(t, tt.wantPreviewOff, *sent.LinkPreviewOptions.IsDisabled)
		})
	}
}

func TestPublishPhoto(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	p := NewPublisher(sender, "@btc_history", logger.Discard())

	ok := p.Publish(context.Background(), formatter.Message{
		Body:      "caption",
		MediaURL:  "https://a/1.jpg",
		MediaKind: formatter.MediaPhoto,
	})
	require.True(t, ok)
	require.Len(t, sender.photos, 1)
	assert.Empty(t, sender.messages)
	assert.Empty(t, sender.videos)

	sent := sender.photos[0]
	assert.Equal(t, "@btc_history", sent.ChatID)
	assert.Equal(t, &models.InputFileString{Data: "https://a/1.jpg"}, sent.Photo)
	assert.Equal(t, "caption", sent.Caption)
	assert.Equal(t, models.ParseModeHTML, sent.ParseMode)
}

func TestPublishVideo(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	p := NewPublisher(sender, int64(42), logger.Discard())

	ok := p.Publish(context.Background(), formatter.Message{
		Body:      "caption",
		MediaURL:  "https://a/v.mov",
		MediaKind: formatter.MediaVideo,
	})
	require.True(t, ok)
	require.Len(t, sender.videos, 1)
	assert.Empty(t, sender.messages)
	assert.Empty(t, sender.photos)

	sent := sender.videos[0]
	assert.Equal(t, &models.InputFileString{Data: "https://a/v.mov"}, sent.Video)
	assert.Equal(t, "caption", sent.Caption)
	assert.Equal(t, models.ParseModeHTML, sent.ParseMode)
}

func TestPublishMediaWithoutKindSendsText(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	p := NewPublisher(sender, int64(42), logger.Discard())

	require.True(t, p.Publish(context.Background(), formatter.Message{Body: "b", MediaURL: "https://a/1.jpg"}))
	assert.Len(t, sender.messages, 1)
	assert.Empty(t, sender.photos)
}

func TestPublishFailureReturnsFalse(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("Bad Request: can't parse entities")}
	p := NewPublisher(sender, int64(42), logger.Discard())

	assert.False(t, p.Publish(context.Background(), formatter.Message{Body: "b"}))
	assert.False(t, p.Publish(context.Background(), formatter.Message{Body: "b", MediaURL: "https://a/1.jpg", MediaKind: formatter.MediaPhoto}))
	assert.False(t, p.Publish(context.Background(), formatter.Message{Body: "b", MediaURL: "https://a/1.mp4", MediaKind: formatter.MediaVideo}))
}

func TestDryRunPublisher(t *testing.T) {
	t.Parallel()

	p := NewDryRunPublisher(logger.Discard())
	assert.True(t, p.Publish(context.Background(), formatter.Message{Body: "b"}))
}

func TestTokenPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "...", tokenPrefix("short"))
	assert.Equal(t, "12345678...", tokenPrefix("123456789:abcdef"))
}
