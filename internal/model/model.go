package model

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Сырой элемент: одна запись из ленты или одна скачанная страница, до обработки AI
type RawItem struct {
	Title string
	Link  string
	// Дата публикации в источнике, может быть нулевой
	PublishedAt time.Time
	Body        string
	// Если в ленте нет guid, берем ссылку
	GUID string
	// Категории элемента в ленте
	Categories []string
}

// Проверка элемента на границе: без заголовка или текста переписывать нечего
func (i RawItem) Validate() error {
	var missing []string
	if strings.TrimSpace(i.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(i.Body) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing %s", strings.Join(missing, " and "))
	}
	return nil
}

// Статья после AI-обработки.
// Если Error заполнен, остальные поля заполнены как получилось (или исходными данными)
type ProcessedArticle struct {
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	MetaDescription string   `json:"metaDescription"`
	SEOKeywords     []string `json:"seoKeywords"`
	SourceURL       string   `json:"sourceUrl,omitempty"`
	SourceTitle     string   `json:"sourceTitle,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func (a ProcessedArticle) Failed() bool {
	return a.Error != ""
}

// Результат обработки ленты: то что получилось + ошибки и заметки по отдельным элементам
type FeedRunResult struct {
	Articles []ProcessedArticle `json:"articles"`
	Errors   []string           `json:"errors,omitempty"`
}

type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusError   RunStatus = "error"
)

// Результат обработки одного URL в пакетном режиме
type BatchRunResult struct {
	Item      ProcessedArticle `json:"item"`
	Status    RunStatus        `json:"status"`
	SourceRef string           `json:"sourceRef"`
	Message   string           `json:"message,omitempty"`
}

// Опубликованный пост блога
type Post struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl,omitempty"`
	ImageHint     string `json:"imageHint,omitempty"`
	Date          string `json:"date"`
	Author        string `json:"author"`
	Upvotes       int    `json:"upvotes"`
	CommentsCount int    `json:"commentsCount"`
	Category      string `json:"category,omitempty"`
}

// Черновик поста, который редактор отправляет на публикацию после ревью
type PostDraft struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Excerpt   string `json:"excerpt"`
	Category  string `json:"category"`
	ImageURL  string `json:"imageUrl"`
	ImageHint string `json:"imageHint"`
	Author    string `json:"author"`
}

func (d PostDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("post title is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return errors.New("post content is required")
	}
	return nil
}

// Модель источника (RSS лента для синдикации)
type Source struct {
	ID   int64
	Name string
	// Урл откуда забираем данные
	FeedURL string
	// Категория, с которой статьи из ленты уходят в rewriter
	Category  string
	CreatedAt time.Time
}

// Сохраненный результат AI-обработки, ждет ревью и публикации
type Draft struct {
	ID       int64
	Article  ProcessedArticle
	Category string
	// Время создания
	CreatedAt time.Time
	// Нулевое, пока черновик не опубликован
	PublishedAt time.Time
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    string    `json:"postId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type BannerPlacement string

const (
	PlacementHeader    BannerPlacement = "header"
	PlacementSidebar   BannerPlacement = "sidebar"
	PlacementFooter    BannerPlacement = "footer"
	PlacementInContent BannerPlacement = "in-content"
)

func (p BannerPlacement) Valid() bool {
	switch p {
	case PlacementHeader, PlacementSidebar, PlacementFooter, PlacementInContent:
		return true
	}
	return false
}

type Banner struct {
	ID        int64           `json:"id"`
	HTML      string          `json:"html"`
	Placement BannerPlacement `json:"placement"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Настройки внешнего вида сайта
type SiteSettings struct {
	Title string    `json:"title"`
	Theme SiteTheme `json:"theme"`
}

type SiteTheme struct {
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
}

// Настройки, пока администратор ничего не менял
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		Title: "AutoBlog",
		Theme: SiteTheme{
			Primary:    "#2563eb",
			Background: "#f8fafc",
			Accent:     "#f97316",
		},
	}
}
