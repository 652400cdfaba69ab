package notifier

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

var post = model.Post{Title: "Best SUVs of 2024", Slug: "best-suvs-of-2024", Excerpt: "Top picks."}

func TestNotify(t *testing.T) {
	sender := &fakeSender{}
	n := New(sender, -100123, "https://blog.example.com/")

	require.NoError(t, n.Notify(context.Background(), post))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)
	assert.Equal(t, "*Best SUVs of 2024*\n\nTop picks\\.\n\nhttps://blog\\.example\\.com/posts/best\\-suvs\\-of\\-2024", msg.Text)
}

func TestNotifyDisabled(t *testing.T) {
	sender := &fakeSender{}

	require.NoError(t, New(sender, 0, "https://blog.example.com").Notify(context.Background(), post))
	require.NoError(t, New(nil, 1, "https://blog.example.com").Notify(context.Background(), post))
	assert.Empty(t, sender.sent)
}

func TestNotifySendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("forbidden")}

	err := New(sender, 1, "https://blog.example.com").Notify(context.Background(), post)
	assert.ErrorContains(t, err, "forbidden")
}

func TestPostURL(t *testing.T) {
	n := New(nil, 0, "https://blog.example.com/")
	assert.Equal(t, "https://blog.example.com/posts/best-suvs-of-2024", n.PostURL(post))
}
