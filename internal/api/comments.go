package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type addCommentRequest struct {
	Author string `json:"author" binding:"required,max=100"`
	Text   string `json:"text" binding:"required,max=2000"`
}

func (s *Server) listComments(c *gin.Context) {
	post, ok := s.deps.Posts.PostBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	comments, err := s.deps.Comments.CommentsByPost(c.Request.Context(), post.ID)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (s *Server) addComment(c *gin.Context) {
	post, ok := s.deps.Posts.PostBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	comment, err := s.deps.Comments.Add(c.Request.Context(), model.Comment{
		PostID: post.ID,
		Author: strings.TrimSpace(req.Author),
		Text:   strings.TrimSpace(req.Text),
	})
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}
