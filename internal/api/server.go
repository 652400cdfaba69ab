package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kovalyov-valentin/autoblog/internal/model"
	"github.com/kovalyov-valentin/autoblog/internal/storage"
)

const adminTokenHeader = "X-Admin-Token"

type PostReader interface {
	Posts() []model.Post
	PostBySlug(slug string) (model.Post, bool)
}

type Publisher interface {
	Publish(ctx context.Context, draft model.PostDraft) (model.Post, error)
	PublishDraft(ctx context.Context, id int64) (model.Post, error)
}

type ArticleProcessor interface {
	ProcessURL(ctx context.Context, url string, category string) model.ProcessedArticle
	ProcessFeed(ctx context.Context, feedURL string, category string) model.FeedRunResult
	ProcessBatch(ctx context.Context, urls []string, category string) []model.BatchRunResult
}

type DraftStorage interface {
	Drafts(ctx context.Context, limit uint64) ([]model.Draft, error)
	Delete(ctx context.Context, id int64) error
}

type CommentStorage interface {
	Add(ctx context.Context, comment model.Comment) (model.Comment, error)
	CommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

type BannerStorage interface {
	Add(ctx context.Context, banner model.Banner) (model.Banner, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Banners(ctx context.Context, filter storage.BannerFilter) ([]model.Banner, error)
}

type SiteStorage interface {
	SiteSettings(ctx context.Context) (model.SiteSettings, error)
	SaveSiteSettings(ctx context.Context, settings model.SiteSettings) error
}

// Зависимости HTTP API
type Deps struct {
	Posts     PostReader
	Publisher Publisher
	Processor ArticleProcessor
	Drafts    DraftStorage
	Comments  CommentStorage
	Banners   BannerStorage
	Site      SiteStorage

	// Пустой токен выключает админские ручки
	AdminToken      string
	DefaultCategory string
}

type Server struct {
	deps Deps
}

// NewRouter собирает gin engine со всеми ручками блога и админки
func NewRouter(deps Deps) *gin.Engine {
	s := &Server{deps: deps}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.health)

	public := r.Group("/api")
	public.GET("/posts", s.listPosts)
	public.GET("/posts/:slug", s.getPost)
	public.GET("/posts/:slug/comments", s.listComments)
	public.POST("/posts/:slug/comments", s.addComment)
	public.GET("/banners", s.listBanners)
	public.GET("/site", s.getSite)

	admin := r.Group("/api/admin", adminOnly(deps.AdminToken))
	admin.POST("/rewrite/url", s.rewriteURL)
	admin.POST("/rewrite/feed", s.rewriteFeed)
	admin.POST("/rewrite/batch", s.rewriteBatch)
	admin.POST("/posts", s.publishPost)
	admin.GET("/drafts", s.listDrafts)
	admin.POST("/drafts/:id/publish", s.publishDraft)
	admin.DELETE("/drafts/:id", s.deleteDraft)
	admin.POST("/banners", s.addBanner)
	admin.PUT("/banners/:id/active", s.setBannerActive)
	admin.PUT("/site", s.saveSite)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Проверка X-Admin-Token
func adminOnly(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API is disabled"})
			return
		}

		got := c.GetHeader(adminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}

		c.Next()
	}
}

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
