package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/autoblog/internal/model"
	"github.com/kovalyov-valentin/autoblog/internal/rewriter"
	"github.com/kovalyov-valentin/autoblog/internal/source"
)

var articleHTML = `<html><head><title>Page title</title></head><body><article><p>` +
	strings.Repeat("Electric pickups are changing the towing game. ", 4) +
	`</p></article></body></html>`

type fakePages struct {
	pages map[string]string
	errs  map[string]error
}

func (f *fakePages) FetchPage(_ context.Context, url string) (string, error) {
	if err := f.errs[url]; err != nil {
		return "", err
	}
	return f.pages[url], nil
}

type fakeFeeds struct {
	result source.FeedResult
}

func (f *fakeFeeds) FetchFeed(context.Context, string) source.FeedResult {
	return f.result
}

type fakeRewriter struct {
	mu     sync.Mutex
	calls  []rewriter.Input
	err    error
	panics bool
}

func (f *fakeRewriter) ProcessBlogPost(_ context.Context, in rewriter.Input) (model.ProcessedArticle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	f.mu.Unlock()

	if f.panics {
		panic("generator exploded")
	}
	if f.err != nil {
		return model.ProcessedArticle{}, f.err
	}

	return model.ProcessedArticle{
		Title:           "AI " + in.Title,
		Body:            "AI " + in.Body,
		MetaDescription: "meta",
		SEOKeywords:     []string{"k1", "k2", "k3"},
	}, nil
}

func TestProcessURL(t *testing.T) {
	pages := &fakePages{pages: map[string]string{"https://cars.example.com/a": articleHTML}}
	rw := &fakeRewriter{}

	article := New(pages, nil, rw, Options{}).ProcessURL(context.Background(), "https://cars.example.com/a", "EVs")

	require.Empty(t, article.Error)
	assert.Equal(t, "AI Page title", article.Title)
	assert.Equal(t, "https://cars.example.com/a", article.SourceURL)
	assert.Equal(t, "Page title", article.SourceTitle)
	require.Len(t, rw.calls, 1)
	assert.Equal(t, "EVs", rw.calls[0].Category)
	assert.Contains(t, rw.calls[0].Body, "Electric pickups")
}

func TestProcessURLShortContentSkipsRewriter(t *testing.T) {
	pages := &fakePages{pages: map[string]string{
		"https://cars.example.com/short": `<html><head><title>Tiny</title></head><body><p>Nothing here.</p></body></html>`,
	}}
	rw := &fakeRewriter{}

	article := New(pages, nil, rw, Options{}).ProcessURL(context.Background(), "https://cars.example.com/short", "EVs")

	assert.Contains(t, article.Error, "too short")
	assert.Equal(t, "Tiny", article.Title)
	assert.Equal(t, "https://cars.example.com/short", article.SourceURL)
	assert.Empty(t, rw.calls)
}

func TestProcessURLFetchError(t *testing.T) {
	url := "https://down.example.com"
	pages := &fakePages{errs: map[string]error{url: &source.FetchError{URL: url, Err: errors.New("connection refused")}}}
	rw := &fakeRewriter{}

	article := New(pages, nil, rw, Options{}).ProcessURL(context.Background(), url, "EVs")

	assert.Contains(t, article.Error, "connection refused")
	assert.Equal(t, url, article.SourceURL)
	assert.Empty(t, rw.calls)
}

func TestProcessURLGenerationErrorKeepsOriginal(t *testing.T) {
	pages := &fakePages{pages: map[string]string{"https://cars.example.com/a": articleHTML}}
	rw := &fakeRewriter{err: &rewriter.GenerationError{Step: rewriter.StepTitle}}

	article := New(pages, nil, rw, Options{}).ProcessURL(context.Background(), "https://cars.example.com/a", "EVs")

	assert.Contains(t, article.Error, "AI processing failed")
	assert.Equal(t, "Page title", article.Title)
	assert.Contains(t, article.Body, "Electric pickups")
	assert.NotNil(t, article.SEOKeywords)
}

func TestProcessURLRecoversPanic(t *testing.T) {
	pages := &fakePages{pages: map[string]string{"https://cars.example.com/a": articleHTML}}
	rw := &fakeRewriter{panics: true}

	article := New(pages, nil, rw, Options{}).ProcessURL(context.Background(), "https://cars.example.com/a", "EVs")

	assert.Contains(t, article.Error, "generator exploded")
	assert.Equal(t, "https://cars.example.com/a", article.SourceURL)
}

func TestProcessFeedRespectsCap(t *testing.T) {
	feeds := &fakeFeeds{result: source.FeedResult{Items: []model.RawItem{
		{Title: "A", Body: "x", Link: "https://cars.example.com/a"},
		{Title: "B", Body: "y", Link: "https://cars.example.com/b"},
		{Title: "C", Body: "z", Link: "https://cars.example.com/c"},
	}}}
	rw := &fakeRewriter{}

	result := New(nil, feeds, rw, Options{ItemCap: 2}).ProcessFeed(context.Background(), "https://cars.example.com/rss", "News")

	require.Len(t, result.Articles, 2)
	assert.Equal(t, "AI A", result.Articles[0].Title)
	assert.Equal(t, "A", result.Articles[0].SourceTitle)
	assert.Equal(t, "https://cars.example.com/a", result.Articles[0].SourceURL)
	assert.Equal(t, "AI B", result.Articles[1].Title)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "first 2 of 3")
	assert.Len(t, rw.calls, 2)
}

func TestProcessFeedSkipsIncompleteItems(t *testing.T) {
	feeds := &fakeFeeds{result: source.FeedResult{Items: []model.RawItem{
		{Title: "A", Body: ""},
		{Title: "B", Body: "y"},
	}}}
	rw := &fakeRewriter{}

	result := New(nil, feeds, rw, Options{ItemCap: 2}).ProcessFeed(context.Background(), "https://cars.example.com/rss", "News")

	require.Len(t, result.Articles, 1)
	assert.Equal(t, "AI B", result.Articles[0].Title)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Skipped item 1")
	assert.Contains(t, result.Errors[0], "missing content")
}

func TestProcessFeedRewriteErrorsAreCollected(t *testing.T) {
	feeds := &fakeFeeds{result: source.FeedResult{Items: []model.RawItem{{Title: "A", Body: "x"}}}}
	rw := &fakeRewriter{err: &rewriter.GenerationError{Step: rewriter.StepTitle}}

	result := New(nil, feeds, rw, Options{}).ProcessFeed(context.Background(), "https://cars.example.com/rss", "News")

	assert.Empty(t, result.Articles)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `Failed to process "A"`)
}

func TestProcessFeedFetchFailure(t *testing.T) {
	feeds := &fakeFeeds{result: source.FeedResult{
		Items: []model.RawItem{},
		Err:   &source.FeedParseError{URL: "https://bad.example.com", Err: errors.New("not a feed")},
	}}
	rw := &fakeRewriter{}

	result := New(nil, feeds, rw, Options{}).ProcessFeed(context.Background(), "https://bad.example.com", "News")

	assert.Empty(t, result.Articles)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not a feed")
	assert.Empty(t, rw.calls)
}

func TestProcessFeedEmpty(t *testing.T) {
	feeds := &fakeFeeds{result: source.FeedResult{Items: []model.RawItem{}}}

	result := New(nil, feeds, &fakeRewriter{}, Options{}).ProcessFeed(context.Background(), "https://cars.example.com/rss", "News")

	assert.Empty(t, result.Articles)
	assert.Equal(t, []string{"The feed contains no items"}, result.Errors)
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	urls := []string{"https://cars.example.com/1", "https://cars.example.com/2", "https://cars.example.com/3"}
	pages := &fakePages{
		pages: map[string]string{urls[0]: articleHTML, urls[2]: articleHTML},
		errs:  map[string]error{urls[1]: &source.FetchError{URL: urls[1], Err: errors.New("network is unreachable")}},
	}
	rw := &fakeRewriter{}

	results := New(pages, nil, rw, Options{}).ProcessBatch(context.Background(), urls, "EVs")

	require.Len(t, results, 3)
	for i, url := range urls {
		assert.Equal(t, url, results[i].SourceRef)
	}
	assert.Equal(t, model.StatusSuccess, results[0].Status)
	assert.Equal(t, model.StatusError, results[1].Status)
	assert.Contains(t, results[1].Message, "network is unreachable")
	assert.Equal(t, model.StatusSuccess, results[2].Status)
	assert.Len(t, rw.calls, 2)
}

func TestProcessBatchConcurrentKeepsOrder(t *testing.T) {
	urls := []string{"https://cars.example.com/1", "https://cars.example.com/2", "https://cars.example.com/3", "https://cars.example.com/4"}
	pages := &fakePages{pages: map[string]string{}}
	for _, url := range urls {
		pages.pages[url] = articleHTML
	}

	results := New(pages, nil, &fakeRewriter{}, Options{BatchConcurrency: 3}).ProcessBatch(context.Background(), urls, "EVs")

	require.Len(t, results, len(urls))
	for i, url := range urls {
		assert.Equal(t, url, results[i].SourceRef)
		assert.Equal(t, model.StatusSuccess, results[i].Status)
		assert.Equal(t, url, results[i].Item.SourceURL)
	}
}
