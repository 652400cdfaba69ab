package rewriter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

const (
	StepTitle           = "title"
	StepBody            = "body"
	StepKeywords        = "keywords"
	StepMetaDescription = "meta description"

	maxKeywords        = 5
	maxMetaDescription = 160
)

// Бэкенд генерации текста
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// GenerationError - бэкенд не вернул пригодного ответа
type GenerationError struct {
	Step string
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("generate %s: backend returned no output", e.Step)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type Input struct {
	Title    string
	Body     string
	Category string
}

type Rewriter struct {
	generator Generator
}

func New(generator Generator) *Rewriter {
	return &Rewriter{generator: generator}
}

// ProcessBlogPost переписывает статью в четыре запроса.
// Заголовок обязателен: без него возвращается *GenerationError.
// Текст при ошибке остается исходным, ключевые слова и meta description - пустыми
func (r *Rewriter) ProcessBlogPost(ctx context.Context, in Input) (model.ProcessedArticle, error) {
	title, err := r.generate(ctx, StepTitle, titleTemplate, promptData{
		Title:    in.Title,
		Category: in.Category,
	})
	if err != nil {
		return model.ProcessedArticle{}, err
	}
	title = cleanTitle(title)
	if title == "" {
		return model.ProcessedArticle{}, &GenerationError{Step: StepTitle}
	}

	article := model.ProcessedArticle{
		Title:       title,
		Body:        in.Body,
		SEOKeywords: []string{},
	}

	body, err := r.generate(ctx, StepBody, bodyTemplate, promptData{
		Body:           in.Body,
		Category:       in.Category,
		OptimizedTitle: title,
	})
	if err != nil {
		zap.S().Warnf("body rewrite failed, keeping original content: %v", err)
	} else {
		article.Body = body
	}

	keywords, err := r.generate(ctx, StepKeywords, keywordsTemplate, promptData{
		Body:           article.Body,
		Category:       in.Category,
		OptimizedTitle: title,
	})
	if err != nil {
		zap.S().Warnf("keyword extraction failed: %v", err)
	} else {
		article.SEOKeywords = parseKeywords(keywords)
	}

	meta, err := r.generate(ctx, StepMetaDescription, metaTemplate, promptData{
		Category:       in.Category,
		OptimizedTitle: title,
	})
	if err != nil {
		zap.S().Warnf("meta description generation failed: %v", err)
	} else {
		article.MetaDescription = cleanMetaDescription(meta)
	}

	return article, nil
}

// Ошибка бэкенда и пустой ответ для вызывающего одно и то же: *GenerationError
func (r *Rewriter) generate(ctx context.Context, step string, tmpl *template.Template, data promptData) (string, error) {
	prompt, err := render(tmpl, data)
	if err != nil {
		return "", &GenerationError{Step: step, Err: err}
	}

	out, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Step: step, Err: err}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", &GenerationError{Step: step}
	}

	return out, nil
}

var (
	headingMarks = regexp.MustCompile(`^#+\s*`)
	listMarker   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
)

// Модель иногда отвечает заголовком markdown или в кавычках, оставляем одну чистую строку
func cleanTitle(raw string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	line = headingMarks.ReplaceAllString(strings.TrimSpace(line), "")
	line = strings.TrimPrefix(line, "Title:")
	line = strings.Trim(strings.TrimSpace(line), "\"'`*“”«»")
	return strings.TrimSpace(line)
}

func cleanMetaDescription(raw string) string {
	meta := strings.Join(strings.Fields(strings.Trim(raw, "\"'")), " ")
	runes := []rune(meta)
	if len(runes) <= maxMetaDescription {
		return meta
	}
	return strings.TrimSpace(string(runes[:maxMetaDescription-3])) + "..."
}

// Ответ с ключевыми словами: JSON массив, а если модель его не соблюла - список через запятую или переносы
func parseKeywords(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "`\n ")

	var candidates []string
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		candidates = strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == '\n' || r == ';'
		})
	}

	keywords := lo.Map(candidates, func(k string, _ int) string {
		k = listMarker.ReplaceAllString(k, "")
		return strings.Trim(strings.TrimSpace(k), "\"'[]")
	})
	keywords = lo.Compact(keywords)
	keywords = lo.UniqBy(keywords, strings.ToLower)

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	return keywords
}
