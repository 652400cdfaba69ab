package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// GET /api/posts?category=
func (s *Server) listPosts(c *gin.Context) {
	posts := s.deps.Posts.Posts()

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		posts = lo.Filter(posts, func(p model.Post, _ int) bool {
			return strings.EqualFold(p.Category, category)
		})
	}

	c.JSON(http.StatusOK, posts)
}

// GET /api/posts/:slug
func (s *Server) getPost(c *gin.Context) {
	post, ok := s.deps.Posts.PostBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// POST /api/admin/posts - публикация проверенной редактором статьи
func (s *Server) publishPost(c *gin.Context) {
	var draft model.PostDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if err := draft.Validate(); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	post, err := s.deps.Publisher.Publish(c.Request.Context(), draft)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}
