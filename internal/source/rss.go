package source

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/SlyMarbo/rss"
	"github.com/go-shiori/go-readability"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// FeedParseError - лента недоступна или это вообще не RSS/Atom
type FeedParseError struct {
	URL string
	Err error
}

func (e *FeedParseError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.URL, e.Err)
}

func (e *FeedParseError) Unwrap() error {
	return e.Err
}

// Результат загрузки ленты. Ошибку не кидаем, а кладем в Err,
// чтобы вызывающий мог просто проверить поле
type FeedResult struct {
	Items []model.RawItem
	Err   error
}

// RSS клиент.
type RSSSource struct {
	client *http.Client
}

func NewRSSSource(client *http.Client) *RSSSource {
	if client == nil {
		client = &http.Client{}
	}
	return &RSSSource{client: client}
}

// FetchFeed загружает и разбирает ленту, элементы возвращаются в порядке ленты
func (s *RSSSource) FetchFeed(ctx context.Context, url string) FeedResult {
	data, err := get(ctx, s.client, url, "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")
	if err != nil {
		return FeedResult{Items: []model.RawItem{}, Err: &FeedParseError{URL: url, Err: err}}
	}

	feed, err := rss.Parse(data)
	if err != nil {
		return FeedResult{Items: []model.RawItem{}, Err: &FeedParseError{URL: url, Err: err}}
	}

	// Передаем items, и по одному мапим модельки
	items := lo.Map(feed.Items, func(item *rss.Item, _ int) model.RawItem {
		guid := item.ID
		if guid == "" {
			guid = item.Link
		}

		return model.RawItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			PublishedAt: item.Date,
			Body:        itemBody(item),
			GUID:        guid,
			Categories:  item.Categories,
		}
	})

	return FeedResult{Items: items}
}

// Текст элемента: сниппет из summary, если его нет - из content, иначе пусто
func itemBody(item *rss.Item) string {
	if snippet := plainText(item.Summary); snippet != "" {
		return snippet
	}
	return plainText(item.Content)
}

// Библиотека readability создает много пустых строк в тексте очищенном от html тегов
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

// plainText превращает html из ленты в текст.
// На коротких фрагментах readability иногда ничего не находит, тогда берем текст через goquery
func plainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	if doc, err := readability.FromReader(strings.NewReader(fragment), nil); err == nil {
		if text := cleanText(doc.TextContent); text != "" {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return cleanText(doc.Text())
}

func cleanText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n\n"))
}
