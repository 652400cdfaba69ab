package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kovalyov-valentin/autoblog/internal/extractor"
	"github.com/kovalyov-valentin/autoblog/internal/model"
	"github.com/kovalyov-valentin/autoblog/internal/rewriter"
	"github.com/kovalyov-valentin/autoblog/internal/source"
)

// Ограничение по умолчанию на число элементов ленты за запуск (лимиты AI бэкенда)
const DefaultItemCap = 2

type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

type FeedFetcher interface {
	FetchFeed(ctx context.Context, url string) source.FeedResult
}

type Rewriter interface {
	ProcessBlogPost(ctx context.Context, in rewriter.Input) (model.ProcessedArticle, error)
}

type Options struct {
	ItemCap int
	// Сколько URL пакета обрабатываем одновременно, 1 - строго по очереди
	BatchConcurrency int
}

// Pipeline собирает цепочку fetch -> extract -> rewrite и агрегирует ошибки.
// Наружу ошибки не выходят: все превращается в поля результата
type Pipeline struct {
	pages    PageFetcher
	feeds    FeedFetcher
	rewriter Rewriter

	itemCap          int
	batchConcurrency int
}

func New(pages PageFetcher, feeds FeedFetcher, rw Rewriter, opts Options) *Pipeline {
	if opts.ItemCap <= 0 {
		opts.ItemCap = DefaultItemCap
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}

	return &Pipeline{
		pages:            pages,
		feeds:            feeds,
		rewriter:         rw,
		itemCap:          opts.ItemCap,
		batchConcurrency: opts.BatchConcurrency,
	}
}

// ProcessURL скачивает страницу, достает статью и переписывает ее
func (p *Pipeline) ProcessURL(ctx context.Context, url string, category string) (article model.ProcessedArticle) {
	// Паника в любой стадии тоже превращается в ошибку результата
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("panic recovered while processing %s: %v\n%s", url, r, string(debug.Stack()))
			article = model.ProcessedArticle{
				SourceURL:   url,
				SEOKeywords: []string{},
				Error:       fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	html, err := p.pages.FetchPage(ctx, url)
	if err != nil {
		return failed(model.RawItem{Link: url}, errors.Wrap(err, "failed to fetch the page"))
	}

	extracted, err := extractor.Extract(html, url)
	raw := model.RawItem{Title: extracted.Title, Body: extracted.Body, Link: url, GUID: url}
	if err != nil {
		// Почти пустой текст в AI не отправляем
		return failed(raw, errors.Wrap(err, "could not extract enough content from the page"))
	}

	article, err = p.rewriter.ProcessBlogPost(ctx, rewriter.Input{
		Title:    raw.Title,
		Body:     raw.Body,
		Category: category,
	})
	if err != nil {
		return failed(raw, errors.Wrap(err, "AI processing failed"))
	}

	article.SourceURL = url
	article.SourceTitle = raw.Title
	return article
}

// ProcessFeed переписывает первые itemCap элементов ленты.
// Ошибка загрузки ленты или пустая лента - сразу выход без частичных результатов
func (p *Pipeline) ProcessFeed(ctx context.Context, feedURL string, category string) model.FeedRunResult {
	result := model.FeedRunResult{Articles: []model.ProcessedArticle{}}

	feed := p.feeds.FetchFeed(ctx, feedURL)
	if feed.Err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to fetch or parse the feed: %v", feed.Err))
		return result
	}
	if len(feed.Items) == 0 {
		result.Errors = append(result.Errors, "The feed contains no items")
		return result
	}

	return p.ProcessItems(ctx, feed.Items, category)
}

// ItemCap - сколько элементов ленты берется за один запуск
func (p *Pipeline) ItemCap() int {
	return p.itemCap
}

// ProcessItems переписывает уже загруженные элементы ленты с тем же ограничением itemCap
func (p *Pipeline) ProcessItems(ctx context.Context, all []model.RawItem, category string) model.FeedRunResult {
	result := model.FeedRunResult{Articles: []model.ProcessedArticle{}}

	items := all
	if len(items) > p.itemCap {
		items = items[:p.itemCap]
	}

	for i, item := range items {
		if err := item.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Skipped item %d (%s): %v", i+1, itemRef(item), err))
			continue
		}

		article, err := p.rewriter.ProcessBlogPost(ctx, rewriter.Input{
			Title:    item.Title,
			Body:     item.Body,
			Category: category,
		})
		if err != nil {
			zap.S().Warnf("feed item %q (%s) failed: %v", item.Title, item.Link, err)
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to process %q: %v", item.Title, err))
			continue
		}

		article.SourceURL = item.Link
		article.SourceTitle = item.Title
		result.Articles = append(result.Articles, article)
	}

	if skipped := len(all) - len(items); skipped > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"Processed the first %d of %d feed items to respect rate limits; %d items were not processed",
			len(items), len(all), skipped,
		))
	}

	return result
}

// ProcessBatch прогоняет каждый URL через ProcessURL.
// Результаты идут в порядке входных URL, ошибка одного URL на остальные не влияет
func (p *Pipeline) ProcessBatch(ctx context.Context, urls []string, category string) []model.BatchRunResult {
	results := make([]model.BatchRunResult, len(urls))

	var g errgroup.Group
	g.SetLimit(p.batchConcurrency)

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			results[i] = batchResult(url, p.ProcessURL(ctx, url, category))
			return nil
		})
	}

	// Горутины ошибок не возвращают
	_ = g.Wait()

	return results
}

func batchResult(url string, article model.ProcessedArticle) model.BatchRunResult {
	if article.Failed() {
		return model.BatchRunResult{
			Item:      article,
			Status:    model.StatusError,
			SourceRef: url,
			Message:   article.Error,
		}
	}

	return model.BatchRunResult{
		Item:      article,
		Status:    model.StatusSuccess,
		SourceRef: url,
		Message:   fmt.Sprintf("Processed %q", article.Title),
	}
}

// Статья с ошибкой: заголовок и текст остаются исходными
func failed(raw model.RawItem, err error) model.ProcessedArticle {
	return model.ProcessedArticle{
		Title:       raw.Title,
		Body:        raw.Body,
		SEOKeywords: []string{},
		SourceURL:   raw.Link,
		SourceTitle: raw.Title,
		Error:       err.Error(),
	}
}

func itemRef(item model.RawItem) string {
	switch {
	case item.Title != "":
		return fmt.Sprintf("%q", item.Title)
	case item.Link != "":
		return item.Link
	default:
		return "untitled"
	}
}
