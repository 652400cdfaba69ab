package blog

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

const (
	DefaultAuthor    = "Admin"
	defaultImageHint = "automotive"
	placeholderImage = "https://placehold.co/600x400.png?text="
	dateLayout       = "January 2, 2006"
	excerptLength    = 160
)

// Persister сохраняет список постов целиком
type Persister interface {
	LoadPosts(ctx context.Context) ([]model.Post, error)
	SavePosts(ctx context.Context, posts []model.Post) error
}

type Options struct {
	Author   string
	Location *time.Location
	// Для тестов
	Now func() time.Time
}

// Store хранит опубликованные посты, новые в начале списка
type Store struct {
	mu    sync.RWMutex
	posts []model.Post

	persister Persister
	author    string
	location  *time.Location
	now       func() time.Time
}

func NewStore(persister Persister, opts Options) *Store {
	if opts.Author == "" {
		opts.Author = DefaultAuthor
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		posts:     []model.Post{},
		persister: persister,
		author:    opts.Author,
		location:  opts.Location,
		now:       opts.Now,
	}
}

// Load подтягивает сохраненные посты
func (s *Store) Load(ctx context.Context) error {
	posts, err := s.persister.LoadPosts(ctx)
	if err != nil {
		return errors.Wrap(err, "load posts")
	}
	if posts == nil {
		posts = []model.Post{}
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()

	zap.S().Infof("loaded %d posts", len(posts))
	return nil
}

// AddPost публикует черновик: уникальный slug, id, дата и значения по умолчанию.
// Если сохранить список не удалось, пост в памяти не остается
func (s *Store) AddPost(ctx context.Context, draft model.PostDraft) (model.Post, error) {
	if err := draft.Validate(); err != nil {
		return model.Post{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Post{}, errors.Wrap(err, "generate post id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := lo.Map(s.posts, func(p model.Post, _ int) string {
		return p.Slug
	})

	title := strings.TrimSpace(draft.Title)
	post := model.Post{
		ID:        id.String(),
		Title:     title,
		Slug:      uniqueSlug(Slugify(title), existing),
		Excerpt:   strings.TrimSpace(draft.Excerpt),
		Content:   draft.Content,
		ImageURL:  draft.ImageURL,
		ImageHint: draft.ImageHint,
		Date:      s.now().In(s.location).Format(dateLayout),
		Author:    lo.Ternary(draft.Author != "", draft.Author, s.author),
		Category:  draft.Category,
	}

	if post.Excerpt == "" {
		post.Excerpt = excerpt(post.Content)
	}
	if post.ImageURL == "" {
		post.ImageURL = PlaceholderImageURL(title)
	}
	if post.ImageHint == "" {
		post.ImageHint = lo.Ternary(draft.Category != "", strings.ToLower(draft.Category), defaultImageHint)
	}

	previous := s.posts
	updated := append([]model.Post{post}, previous...)

	if err := s.persister.SavePosts(ctx, updated); err != nil {
		return model.Post{}, errors.Wrap(err, "save posts")
	}
	s.posts = updated

	zap.S().Infof("published post %s (%s)", post.Slug, post.ID)
	return post, nil
}

// PostBySlug - точное совпадение slug
func (s *Store) PostBySlug(slug string) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.posts, func(p model.Post) bool {
		return p.Slug == slug
	})
}

// Posts возвращает копию списка
func (s *Store) Posts() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

// PlaceholderImageURL - картинка-заглушка с заголовком поста
func PlaceholderImageURL(title string) string {
	return placeholderImage + strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
}

// Текст без разметки, обрезанный до excerptLength символов
func excerpt(content string) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "..."
}
