package botkit

import (
	"context"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Таймаут на одну команду, включая все запросы к AI
const updateTimeout = 3 * time.Minute

type Bot struct {
	api *tgbotapi.BotAPI
	// Команда -> view
	cmdViews map[string]ViewFunc
}

// ViewFunc реагирует на одну команду.
// Update - любой эвент от телеграма, api - клиент, через который отвечаем
type ViewFunc func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error

func New(api *tgbotapi.BotAPI) *Bot {
	return &Bot{
		api:      api,
		cmdViews: make(map[string]ViewFunc),
	}
}

func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	b.cmdViews[cmd] = view
}

// Run читает апдейты до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			updateCtx, updateCancel := context.WithTimeout(ctx, updateTimeout)
			b.handleUpdate(updateCtx, update)
			updateCancel()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Роутинг команды на view. Паника во view не должна ронять бота
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			zap.S().Errorf("panic recovered: %v\n%s", p, string(debug.Stack()))
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	cmd := update.Message.Command()

	view, ok := b.cmdViews[cmd]
	if !ok {
		b.sendText(update.Message.Chat.ID, "Unknown command /"+cmd+", see /start")
		return
	}

	if err := view(ctx, b.api, update); err != nil {
		zap.S().Errorf("failed to handle /%s: %v", cmd, err)

		// Пользователь всегда видит, что команда не удалась и почему
		b.sendText(update.Message.Chat.ID, "Error: "+err.Error())
	}
}

// Простой текст без MarkdownV2
func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		zap.S().Errorf("failed to send message to chat %d: %v", chatID, err)
	}
}
