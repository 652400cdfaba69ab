package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
)

// Лимит телеграма на длину сообщения
const maxMessageLength = 4096

const truncatedSuffix = "\n…"

// Ответ в чат, откуда пришла команда. text уже размечен как MarkdownV2.
// Если телеграм не принял разметку, отправляем тот же текст без нее
func reply(bot *tgbotapi.BotAPI, update tgbotapi.Update, text string) error {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, truncate(text))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	_, err := bot.Send(msg)
	if err == nil || !isMarkupError(err) {
		return err
	}

	zap.S().Warnf("markdown reply rejected, sending plain text: %v", err)

	plain := tgbotapi.NewMessage(update.Message.Chat.ID, truncatePlain(markup.StripMarkdown(text)))
	_, err = bot.Send(plain)
	return err
}

func isMarkupError(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "can't parse entities")
}

// Обрезка размеченного текста по границе строки: сущности разметки не переходят через перенос строки
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}

	cut := string(runes[:maxMessageLength-len([]rune(truncatedSuffix))])
	if i := strings.LastIndex(cut, "\n"); i > 0 {
		return strings.TrimRight(cut[:i], "\n") + truncatedSuffix
	}

	// Одна длинная строка. Одиночный обратный слэш в конце MarkdownV2 недопустим
	return strings.TrimRight(cut, "\\") + truncatedSuffix
}

func truncatePlain(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-len([]rune(truncatedSuffix))]) + truncatedSuffix
}

// Аргументы команды через пробел: первый - обязательный, остальное - необязательный хвост
func splitArgs(args string) (string, string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
