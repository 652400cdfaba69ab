package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/autoblog/internal/botkit"
	"github.com/kovalyov-valentin/autoblog/internal/botkit/markup"
)

const helpText = `AutoBlog admin bot

/rewriteurl <url> [category] - rewrite one article page
/rewritefeed <url> [category] - rewrite the newest items of an RSS feed
/batch <category> <url> <url>... - rewrite several pages
/drafts - list drafts waiting for review
/publish <draft id> - publish a draft to the blog
/addsource {"name": "...", "url": "...", "category": "..."} - add a feed for syndication
/listsources - list syndication feeds
/deletesource <id> - remove a feed`

func ViewCmdStart() botkit.ViewFunc {
	return func(_ context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		return reply(bot, update, markup.EscapeForMarkdown(helpText))
	}
}
