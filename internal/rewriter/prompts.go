package rewriter

import (
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// Запрос к генератору: системная инструкция + пользовательская часть
type Prompt struct {
	System string
	User   string
}

const systemPrompt = "You are an experienced automotive journalist and SEO editor for a car blog. " +
	"Follow the output format exactly and never add commentary."

// Шаблоны заполняются только структурированными полями, склейки строк с чужим текстом нет
var (
	titleTemplate = template.Must(template.New("title").Parse(
		`Rewrite the following article title so it is engaging and search-friendly for the "{{.Category}}" category of an automotive blog.
Keep it under 70 characters and keep the facts of the original.
Return only the new title on a single line, without quotes.

Original title:
{{.Title}}`))

	bodyTemplate = template.Must(template.New("body").Parse(
		`Rewrite the article below as an original, well-structured blog post for the "{{.Category}}" category.
The post will be published under the title "{{.OptimizedTitle}}".
Use short paragraphs and subheadings in Markdown. Keep all facts, figures and model names accurate.
Where a reader would benefit from a related article, insert an internal link placeholder in the exact form [see also: TOPIC],
where TOPIC is a short topic name. Never invent URLs or links of any other kind.
Return only the article body.

Original article:
{{.Body}}`))

	keywordsTemplate = template.Must(template.New("keywords").Parse(
		`Extract between 3 and 5 SEO keywords or key phrases for the blog post below ("{{.Category}}" category).
Return them as a JSON array of strings and nothing else.

Title: {{.OptimizedTitle}}

{{.Body}}`))

	metaTemplate = template.Must(template.New("meta").Parse(
		`Write a meta description of at most 160 characters for an automotive blog post titled "{{.OptimizedTitle}}" in the "{{.Category}}" category.
Return only the description text.`))
)

// Поля, доступные шаблонам
type promptData struct {
	Title          string
	Body           string
	Category       string
	OptimizedTitle string
}

func render(tmpl *template.Template, data promptData) (Prompt, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return Prompt{}, errors.Wrapf(err, "render %s prompt", tmpl.Name())
	}
	return Prompt{System: systemPrompt, User: sb.String()}, nil
}
