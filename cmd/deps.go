package main

import (
	"net/http"
	"time"

	"github.com/kovalyov-valentin/autoblog/internal/config"
	"github.com/kovalyov-valentin/autoblog/internal/pipeline"
	"github.com/kovalyov-valentin/autoblog/internal/rewriter"
	"github.com/kovalyov-valentin/autoblog/internal/source"
)

// Таймаут на одну страницу или ленту
const httpTimeout = 30 * time.Second

// Пайплайн fetch -> extract -> rewrite по конфигу
func newPipeline(cfg config.Config) *pipeline.Pipeline {
	client := &http.Client{Timeout: httpTimeout}

	generator := rewriter.NewOpenAIGenerator(rewriter.OpenAIConfig{
		APIKey:    cfg.OpenAIKey,
		Model:     cfg.OpenAIModel,
		BaseURL:   cfg.OpenAIBaseURL,
		MaxTokens: cfg.OpenAIMaxTokens,
	})

	return pipeline.New(
		source.NewPageFetcher(client),
		source.NewRSSSource(client),
		rewriter.New(generator),
		pipeline.Options{
			ItemCap:          cfg.FeedItemCap,
			BatchConcurrency: cfg.BatchConcurrency,
		},
	)
}
