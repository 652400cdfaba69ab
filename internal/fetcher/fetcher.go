package fetcher

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/model"
	"github.com/kovalyov-valentin/autoblog/internal/source"
)

type SourceProvider interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

type FeedFetcher interface {
	FetchFeed(ctx context.Context, url string) source.FeedResult
}

// Пайплайн переписывания. За один вызов он берет только первые ItemCap элементов
type ItemProcessor interface {
	ProcessItems(ctx context.Context, items []model.RawItem, category string) model.FeedRunResult
	ItemCap() int
}

// Сколько раз пробуем переписать элемент, прежде чем считать его обработанным
const maxItemAttempts = 3

type DraftStorage interface {
	Add(ctx context.Context, article model.ProcessedArticle, category string) (int64, error)
	HasSourceURL(ctx context.Context, sourceURL string) (bool, error)
}

// Fetcher - воркер синдикации.
// Периодически забирает новые элементы из всех источников, переписывает их и складывает в черновики
type Fetcher struct {
	sources   SourceProvider
	feeds     FeedFetcher
	processor ItemProcessor
	drafts    DraftStorage

	// Как часто ходим по источникам
	fetchInterval time.Duration
	// Категория для источников, у которых своя не указана
	defaultCategory string
	// Фильтрация элементов по ключевым словам
	filterKeywords []string

	mu sync.Mutex
	// Ссылка -> число неудачных попыток. Живет в памяти процесса
	failures map[string]int
}

type Options struct {
	FetchInterval   time.Duration
	DefaultCategory string
	FilterKeywords  []string
}

func NewFetcher(
	sources SourceProvider,
	feeds FeedFetcher,
	processor ItemProcessor,
	drafts DraftStorage,
	opts Options,
) *Fetcher {
	return &Fetcher{
		sources:         sources,
		feeds:           feeds,
		processor:       processor,
		drafts:          drafts,
		fetchInterval:   opts.FetchInterval,
		defaultCategory: opts.DefaultCategory,
		filterKeywords: lo.Map(opts.FilterKeywords, func(k string, _ int) string {
			return strings.ToLower(strings.TrimSpace(k))
		}),
		failures: make(map[string]int),
	}
}

// Start работает как самостоятельный воркер до отмены ctx
func (f *Fetcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.fetchInterval)
	defer ticker.Stop()

	if err := f.Fetch(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.Fetch(ctx); err != nil {
				return err
			}
		}
	}
}

// Fetch - один проход по всем источникам.
// Ошибка одного источника на остальные не влияет и только логируется
func (f *Fetcher) Fetch(ctx context.Context) error {
	sources, err := f.sources.Sources(ctx)
	if err != nil {
		return err
	}

	// Источники опрашиваем параллельно, чтобы медленная лента не задерживала остальные
	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)

		go func(src model.Source) {
			defer wg.Done()

			saved, err := f.processSource(ctx, src)
			if err != nil {
				zap.S().Errorf("processing source %s: %v", src.Name, err)
				return
			}

			zap.S().Infof("source %s: %d new drafts", src.Name, saved)
		}(src)
	}

	wg.Wait()

	return nil
}

func (f *Fetcher) processSource(ctx context.Context, src model.Source) (int, error) {
	feed := f.feeds.FetchFeed(ctx, src.FeedURL)
	if feed.Err != nil {
		return 0, feed.Err
	}

	items, err := f.freshItems(ctx, feed.Items)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	category := src.Category
	if category == "" {
		category = f.defaultCategory
	}

	result := f.processor.ProcessItems(ctx, items, category)
	for _, msg := range result.Errors {
		zap.S().Warnf("source %s: %s", src.Name, msg)
	}

	saved := 0
	for _, article := range result.Articles {
		if _, err := f.drafts.Add(ctx, article, category); err != nil {
			return saved, err
		}
		saved++
	}

	f.recordFailures(offeredItems(items, f.processor.ItemCap()), result.Articles)

	return saved, nil
}

// Элементы, которые пайплайн реально взял в работу
func offeredItems(items []model.RawItem, itemCap int) []model.RawItem {
	if itemCap > 0 && len(items) > itemCap {
		return items[:itemCap]
	}
	return items
}

// Взятые в работу элементы без черновика получают еще одну неудачную попытку
func (f *Fetcher) recordFailures(offered []model.RawItem, articles []model.ProcessedArticle) {
	succeeded := set.New(lo.Map(articles, func(a model.ProcessedArticle, _ int) string {
		return a.SourceURL
	})...)

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range offered {
		if succeeded.Contains(item.Link) {
			delete(f.failures, item.Link)
			continue
		}

		f.failures[item.Link]++
		if f.failures[item.Link] == maxItemAttempts {
			zap.S().Warnf("giving up on %s after %d failed attempts", item.Link, maxItemAttempts)
		}
	}
}

func (f *Fetcher) exhausted(link string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.failures[link] >= maxItemAttempts
}

// Элементы, которые еще не обрабатывали и которые не попали под фильтр.
// Неполные элементы и элементы без ссылки отбрасываются до ограничения пайплайна
func (f *Fetcher) freshItems(ctx context.Context, items []model.RawItem) ([]model.RawItem, error) {
	fresh := make([]model.RawItem, 0, len(items))

	for _, item := range items {
		if item.Link == "" || item.Validate() != nil {
			continue
		}

		if f.itemShouldBeSkipped(item) || f.exhausted(item.Link) {
			continue
		}

		seen, err := f.drafts.HasSourceURL(ctx, item.Link)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}

		fresh = append(fresh, item)
	}

	return fresh, nil
}

// Ключевое слово в категориях или заголовке - элемент пропускаем
func (f *Fetcher) itemShouldBeSkipped(item model.RawItem) bool {
	categoriesSet := set.New(lo.Map(item.Categories, func(c string, _ int) string {
		return strings.ToLower(c)
	})...)

	title := strings.ToLower(item.Title)

	for _, keyword := range f.filterKeywords {
		if keyword == "" {
			continue
		}
		if categoriesSet.Contains(keyword) || strings.Contains(title, keyword) {
			return true
		}
	}

	return false
}
