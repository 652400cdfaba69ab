package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

func (s *Server) getSite(c *gin.Context) {
	settings, err := s.deps.Site.SiteSettings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// PUT /api/admin/site. Пустые поля остаются прежними
func (s *Server) saveSite(c *gin.Context) {
	var req model.SiteSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()

	settings, err := s.deps.Site.SiteSettings(ctx)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	settings = mergeSettings(settings, req)

	if err := s.deps.Site.SaveSiteSettings(ctx, settings); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func mergeSettings(current model.SiteSettings, update model.SiteSettings) model.SiteSettings {
	if title := strings.TrimSpace(update.Title); title != "" {
		current.Title = title
	}
	if update.Theme.Primary != "" {
		current.Theme.Primary = update.Theme.Primary
	}
	if update.Theme.Background != "" {
		current.Theme.Background = update.Theme.Background
	}
	if update.Theme.Accent != "" {
		current.Theme.Accent = update.Theme.Accent
	}
	return current
}
