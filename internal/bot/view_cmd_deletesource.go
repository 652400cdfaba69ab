package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/kovalyov-valentin/autoblog/internal/botkit"
	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type SourceDeleter interface {
	SourceByID(ctx context.Context, id int64) (model.Source, error)
	Delete(ctx context.Context, id int64) error
}

func ViewCmdDeleteSource(deleter SourceDeleter) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		id, err := parseID(update.Message.CommandArguments())
		if err != nil {
			return err
		}

		// Несуществующий id - ошибка, а не молчаливый успех
		source, err := deleter.SourceByID(ctx, id)
		if err != nil {
			return err
		}

		if err := deleter.Delete(ctx, id); err != nil {
			return err
		}

		return reply(bot, update, fmt.Sprintf(
			"Source *%s* \\(`%d`\\) deleted\\.",
			markup.EscapeForMarkdown(source.Name),
			id,
		))
	}
}

func parseID(args string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("numeric id expected, got %q", strings.TrimSpace(args))
	}
	return id, nil
}
