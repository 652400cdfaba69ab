package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/blog"
	"github.com/kovalyov-valentin/autoblog/internal/model"
	"github.com/kovalyov-valentin/autoblog/internal/storage"
)

const defaultDraftsLimit = 50

type draftResponse struct {
	ID        int64                  `json:"id"`
	Category  string                 `json:"category"`
	CreatedAt time.Time              `json:"createdAt"`
	Article   model.ProcessedArticle `json:"article"`
}

// GET /api/admin/drafts?limit=
func (s *Server) listDrafts(c *gin.Context) {
	limit := uint64(defaultDraftsLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			errorJSON(c, http.StatusBadRequest, errors.New("limit must be a positive number"))
			return
		}
		limit = parsed
	}

	drafts, err := s.deps.Drafts.Drafts(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(drafts, func(d model.Draft, _ int) draftResponse {
		return draftResponse{
			ID:        d.ID,
			Category:  d.Category,
			CreatedAt: d.CreatedAt,
			Article:   d.Article,
		}
	}))
}

func (s *Server) publishDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	post, err := s.deps.Publisher.PublishDraft(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			errorJSON(c, http.StatusNotFound, err)
		case errors.Is(err, blog.ErrAlreadyPublished):
			errorJSON(c, http.StatusConflict, err)
		default:
			_ = c.Error(err)
			errorJSON(c, http.StatusInternalServerError, err)
		}
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (s *Server) deleteDraft(c *gin.Context) {
	id, ok := draftID(c)
	if !ok {
		return
	}

	if err := s.deps.Drafts.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func draftID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, errors.New("numeric draft id expected"))
		return 0, false
	}
	return id, true
}
