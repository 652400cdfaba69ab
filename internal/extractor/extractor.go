package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Меньше этого количества символов текст статьи считаем непригодным для переписывания
const MinContentLength = 100

// Теги, которые к содержимому статьи не относятся
const noiseSelector = "script, style, noscript, nav, header, footer, aside, form, iframe"

// Контейнеры контента в порядке приоритета
var containerSelectors = []string{"article", "main", "body"}

var whitespace = regexp.MustCompile(`\s+`)

// ExtractionError - со страницы не удалось достать достаточно текста
type ExtractionError struct {
	Length    int
	Threshold int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracted content is too short (%d characters, need at least %d)", e.Length, e.Threshold)
}

type Result struct {
	Title string
	Body  string
}

// Extract достает заголовок и текст статьи из html.
// При слишком коротком тексте вместе с *ExtractionError возвращается то, что удалось достать
func Extract(html string, pageURL string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Result{}, errors.Wrap(err, "parse html")
	}

	result := Result{
		Title: extractTitle(doc, pageURL),
	}

	doc.Find(noiseSelector).Remove()

	result.Body = extractBody(doc)

	if length := len([]rune(result.Body)); length < MinContentLength {
		return result, &ExtractionError{Length: length, Threshold: MinContentLength}
	}

	return result, nil
}

func extractTitle(doc *goquery.Document, pageURL string) string {
	if title := collapse(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if title := collapse(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	return fallbackTitle(pageURL)
}

func fallbackTitle(pageURL string) string {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return "Article from " + strings.TrimPrefix(host, "www.")
}

func extractBody(doc *goquery.Document) string {
	container := contentContainer(doc)
	if container == nil {
		return ""
	}

	paragraphs := container.Find("p").Map(func(_ int, p *goquery.Selection) string {
		return collapse(p.Text())
	})
	paragraphs = lo.Compact(paragraphs)

	body := strings.Join(paragraphs, "\n\n")

	// Абзацев почти нет (верстка на div), берем весь текст контейнера
	if len([]rune(body)) < MinContentLength/2 {
		body = collapse(container.Text())
	}

	return body
}

func contentContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range containerSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func collapse(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}
