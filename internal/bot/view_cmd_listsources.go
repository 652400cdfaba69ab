package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/botkit"
	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type SourceLister interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

func ViewCmdListSources(lister SourceLister) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		sources, err := lister.Sources(ctx)
		if err != nil {
			return err
		}

		if len(sources) == 0 {
			return reply(bot, update, "No sources yet\\. Add one with /addsource")
		}

		sourceInfos := lo.Map(sources, func(source model.Source, _ int) string {
			return formatSource(source)
		})

		return reply(bot, update, fmt.Sprintf(
			"Sources \\(total %d\\):\n\n%s",
			len(sources),
			strings.Join(sourceInfos, "\n\n"),
		))
	}
}

func formatSource(source model.Source) string {
	category := source.Category
	if category == "" {
		category = "default"
	}

	return fmt.Sprintf(
		"🌐 *%s*\nID: `%d`\nFeed URL: %s\nCategory: %s",
		markup.EscapeForMarkdown(source.Name),
		source.ID,
		markup.EscapeForMarkdown(source.FeedURL),
		markup.EscapeForMarkdown(category),
	)
}
