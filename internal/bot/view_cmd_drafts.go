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

// Сколько черновиков показываем в /drafts
const draftsLimit = 10

type DraftLister interface {
	Drafts(ctx context.Context, limit uint64) ([]model.Draft, error)
}

type DraftPublisher interface {
	PublishDraft(ctx context.Context, id int64) (model.Post, error)
}

type PostLinker interface {
	PostURL(post model.Post) string
}

func ViewCmdDrafts(lister DraftLister) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		drafts, err := lister.Drafts(ctx, draftsLimit)
		if err != nil {
			return err
		}

		if len(drafts) == 0 {
			return reply(bot, update, "No drafts waiting for review\\.")
		}

		lines := lo.Map(drafts, func(d model.Draft, _ int) string {
			return formatDraft(d)
		})

		return reply(bot, update, fmt.Sprintf(
			"Drafts \\(latest %d\\):\n\n%s",
			len(drafts),
			strings.Join(lines, "\n\n"),
		))
	}
}

// /publish <draft id>
func ViewCmdPublish(publisher DraftPublisher, linker PostLinker) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		id, err := parseID(update.Message.CommandArguments())
		if err != nil {
			return err
		}

		post, err := publisher.PublishDraft(ctx, id)
		if err != nil {
			return err
		}

		return reply(bot, update, fmt.Sprintf(
			"📰 Published *%s*\n%s",
			markup.EscapeForMarkdown(post.Title),
			markup.EscapeForMarkdown(linker.PostURL(post)),
		))
	}
}

func formatDraft(d model.Draft) string {
	return fmt.Sprintf(
		"`%d` *%s*\n%s · %s",
		d.ID,
		markup.EscapeForMarkdown(d.Article.Title),
		markup.EscapeForMarkdown(d.Category),
		markup.EscapeForMarkdown(d.CreatedAt.Format("2006-01-02 15:04")),
	)
}
