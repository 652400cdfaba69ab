package notifier

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// Отправка сообщений в телеграм, *tgbotapi.BotAPI подходит
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier анонсирует опубликованные посты в канале
type Notifier struct {
	bot Sender
	// id канала куда мы будем постить анонсы
	channelID int64
	// Адрес блога, из него и slug собирается ссылка на пост
	baseURL string
}

func New(bot Sender, channelID int64, baseURL string) *Notifier {
	return &Notifier{
		bot:       bot,
		channelID: channelID,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Notify отправляет анонс поста. Без бота или канала ничего не делает
func (n *Notifier) Notify(_ context.Context, post model.Post) error {
	if n == nil || n.bot == nil || n.channelID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(n.channelID, n.format(post))
	// Даем понять телеграм, чтобы это сообщение парсилось как markdown сообщение
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := n.bot.Send(msg); err != nil {
		return errors.Wrapf(err, "announce post %s", post.Slug)
	}

	return nil
}

// Сначала жирным заголовок, потом выдержка, потом ссылка на пост
func (n *Notifier) format(post model.Post) string {
	const msgFormat = "*%s*\n\n%s\n\n%s"

	return fmt.Sprintf(
		msgFormat,
		markup.EscapeForMarkdown(post.Title),
		markup.EscapeForMarkdown(post.Excerpt),
		markup.EscapeForMarkdown(n.PostURL(post)),
	)
}

func (n *Notifier) PostURL(post model.Post) string {
	return n.baseURL + "/posts/" + post.Slug
}
