package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// FetchError - сетевая ошибка или неуспешный ответ при скачивании страницы
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Клиент для скачивания одной страницы
type PageFetcher struct {
	client *http.Client
}

// nil - клиент по умолчанию, таймаут тогда задает только контекст
func NewPageFetcher(client *http.Client) *PageFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &PageFetcher{client: client}
}

// FetchPage делает GET и возвращает html страницы
func (f *PageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	body, err := get(ctx, f.client, url, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func get(ctx context.Context, client *http.Client, url string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: errors.Wrap(err, "read body")}
	}

	return body, nil
}
