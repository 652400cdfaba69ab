package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type rewriteURLRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Category string `json:"category"`
}

type rewriteBatchRequest struct {
	URLs     []string `json:"urls" binding:"required,min=1,dive,url"`
	Category string   `json:"category"`
}

// Ошибки пайплайна отдаются в теле результата со статусом 200,
// 4xx только для некорректного запроса
func (s *Server) rewriteURL(c *gin.Context) {
	var req rewriteURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	article := s.deps.Processor.ProcessURL(c.Request.Context(), req.URL, s.category(req.Category))
	c.JSON(http.StatusOK, article)
}

func (s *Server) rewriteFeed(c *gin.Context) {
	var req rewriteURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	result := s.deps.Processor.ProcessFeed(c.Request.Context(), req.URL, s.category(req.Category))
	c.JSON(http.StatusOK, result)
}

func (s *Server) rewriteBatch(c *gin.Context) {
	var req rewriteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	results := s.deps.Processor.ProcessBatch(c.Request.Context(), req.URLs, s.category(req.Category))
	c.JSON(http.StatusOK, results)
}

func (s *Server) category(requested string) string {
	if category := strings.TrimSpace(requested); category != "" {
		return category
	}
	return s.deps.DefaultCategory
}
