package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/kovalyov-valentin/autoblog/internal/botkit"
	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type ArticleProcessor interface {
	ProcessURL(ctx context.Context, url string, category string) model.ProcessedArticle
	ProcessFeed(ctx context.Context, feedURL string, category string) model.FeedRunResult
	ProcessBatch(ctx context.Context, urls []string, category string) []model.BatchRunResult
}

type DraftSaver interface {
	Add(ctx context.Context, article model.ProcessedArticle, category string) (int64, error)
}

// /rewriteurl <url> [category]
func ViewCmdRewriteURL(processor ArticleProcessor, drafts DraftSaver, defaultCategory string) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		url, category := splitArgs(update.Message.CommandArguments())
		if url == "" {
			return errors.New("usage: /rewriteurl <url> [category]")
		}
		if category == "" {
			category = defaultCategory
		}

		article := processor.ProcessURL(ctx, url, category)
		if article.Failed() {
			return reply(bot, update, "❌ "+markup.EscapeForMarkdown(article.Error))
		}

		draftID, err := drafts.Add(ctx, article, category)
		if err != nil {
			return err
		}

		return reply(bot, update, formatArticle(article, draftID))
	}
}

// /rewritefeed <url> [category]
func ViewCmdRewriteFeed(processor ArticleProcessor, drafts DraftSaver, defaultCategory string) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		feedURL, category := splitArgs(update.Message.CommandArguments())
		if feedURL == "" {
			return errors.New("usage: /rewritefeed <url> [category]")
		}
		if category == "" {
			category = defaultCategory
		}

		result := processor.ProcessFeed(ctx, feedURL, category)

		parts := make([]string, 0, len(result.Articles)+1)
		for _, article := range result.Articles {
			draftID, err := drafts.Add(ctx, article, category)
			if err != nil {
				return err
			}
			parts = append(parts, formatArticle(article, draftID))
		}

		if len(result.Errors) > 0 {
			parts = append(parts, formatNotes(result.Errors))
		}
		if len(parts) == 0 {
			parts = append(parts, "Nothing was processed\\.")
		}

		return reply(bot, update, strings.Join(parts, "\n\n"))
	}
}

// /batch <category> <url> <url>...
func ViewCmdBatch(processor ArticleProcessor, drafts DraftSaver) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		fields := strings.Fields(update.Message.CommandArguments())
		if len(fields) < 2 {
			return errors.New("usage: /batch <category> <url> <url>...")
		}

		category, urls := fields[0], fields[1:]
		results := processor.ProcessBatch(ctx, urls, category)

		lines := make([]string, 0, len(results)+1)
		succeeded := 0
		for i, result := range results {
			if result.Status != model.StatusSuccess {
				lines = append(lines, formatBatchLine(i+1, result, 0))
				continue
			}

			draftID, err := drafts.Add(ctx, result.Item, category)
			if err != nil {
				return err
			}
			succeeded++
			lines = append(lines, formatBatchLine(i+1, result, draftID))
		}

		header := fmt.Sprintf("Batch finished: %d of %d succeeded", succeeded, len(results))
		return reply(bot, update, markup.EscapeForMarkdown(header)+"\n\n"+strings.Join(lines, "\n"))
	}
}

func formatArticle(article model.ProcessedArticle, draftID int64) string {
	text := fmt.Sprintf(
		"✅ *%s*\nDraft ID: `%d`\nMeta: %s",
		markup.EscapeForMarkdown(article.Title),
		draftID,
		markup.EscapeForMarkdown(article.MetaDescription),
	)

	if len(article.SEOKeywords) > 0 {
		text += "\nKeywords: " + markup.EscapeForMarkdown(strings.Join(article.SEOKeywords, ", "))
	}
	if article.SourceURL != "" {
		text += "\nSource: " + markup.EscapeForMarkdown(article.SourceURL)
	}

	return text
}

func formatNotes(notes []string) string {
	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		lines = append(lines, "⚠️ "+markup.EscapeForMarkdown(note))
	}
	return strings.Join(lines, "\n")
}

func formatBatchLine(n int, result model.BatchRunResult, draftID int64) string {
	if result.Status == model.StatusSuccess {
		return fmt.Sprintf(
			"%d\\. ✅ %s → draft `%d`",
			n,
			markup.EscapeForMarkdown(result.Item.Title),
			draftID,
		)
	}

	return fmt.Sprintf(
		"%d\\. ❌ %s: %s",
		n,
		markup.EscapeForMarkdown(result.SourceRef),
		markup.EscapeForMarkdown(result.Message),
	)
}
