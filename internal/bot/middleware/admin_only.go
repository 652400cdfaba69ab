package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/botkit"
)

const deniedText = "You are not allowed to run this command"

// AdminOnly пропускает команду только от администраторов канала блога
func AdminOnly(channelID int64, next botkit.ViewFunc) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		sender := update.Message.From
		if sender == nil {
			return nil
		}

		allowed, err := isChannelAdmin(bot, channelID, sender.ID)
		if err != nil {
			return err
		}
		if allowed {
			return next(ctx, bot, update)
		}

		zap.S().Warnf("user %d (%s) tried /%s without admin rights", sender.ID, sender.UserName, update.Message.Command())

		_, err = bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, deniedText))
		return err
	}
}

// Админы канала запрашиваются на каждую команду
func isChannelAdmin(bot *tgbotapi.BotAPI, channelID, userID int64) (bool, error) {
	admins, err := bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: channelID},
	})
	if err != nil {
		return false, errors.Wrapf(err, "get administrators of chat %d", channelID)
	}

	return lo.ContainsBy(admins, func(member tgbotapi.ChatMember) bool {
		return member.User != nil && member.User.ID == userID
	}), nil
}
