package bot

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/kovalyov-valentin/autoblog/internal/botkit"
	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type SourceStorage interface {
	Add(ctx context.Context, source model.Source) (int64, error)
}

// Добавление ленты для синдикации
func ViewCmdAddSource(storage SourceStorage) botkit.ViewFunc {
	type addSourceArgs struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		Category string `json:"category"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[addSourceArgs](update.Message.CommandArguments())
		if err != nil {
			return err
		}

		if strings.TrimSpace(args.Name) == "" {
			return errors.New(`source "name" is required`)
		}
		if u, err := url.ParseRequestURI(args.URL); err != nil || u.Host == "" {
			return errors.Errorf("invalid feed url %q", args.URL)
		}

		sourceID, err := storage.Add(ctx, model.Source{
			Name:     args.Name,
			FeedURL:  args.URL,
			Category: args.Category,
		})
		if err != nil {
			return err
		}

		return reply(bot, update, fmt.Sprintf(
			"Source added with ID: `%d`\\. Use this ID to manage the source\\.",
			sourceID,
		))
	}
}
