package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/kovalyov-valentin/autoblog/internal/model"
	"github.com/kovalyov-valentin/autoblog/internal/storage"
)

type addBannerRequest struct {
	HTML      string `json:"html" binding:"required"`
	Placement string `json:"placement" binding:"required"`
	Active    *bool  `json:"active"`
}

type setBannerActiveRequest struct {
	Active bool `json:"active"`
}

// GET /api/banners?placement= - только активные
func (s *Server) listBanners(c *gin.Context) {
	placement := model.BannerPlacement(c.Query("placement"))
	if placement != "" && !placement.Valid() {
		errorJSON(c, http.StatusBadRequest, errors.Errorf("unknown placement %q", placement))
		return
	}

	banners, err := s.deps.Banners.Banners(c.Request.Context(), storage.BannerFilter{
		Placement:  placement,
		ActiveOnly: true,
	})
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, banners)
}

func (s *Server) addBanner(c *gin.Context) {
	var req addBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	placement := model.BannerPlacement(req.Placement)
	if !placement.Valid() {
		errorJSON(c, http.StatusBadRequest, errors.Errorf("unknown placement %q", req.Placement))
		return
	}

	banner, err := s.deps.Banners.Add(c.Request.Context(), model.Banner{
		HTML:      req.HTML,
		Placement: placement,
		Active:    req.Active == nil || *req.Active,
	})
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, banner)
}

func (s *Server) setBannerActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, errors.New("numeric banner id expected"))
		return
	}

	var req setBannerActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	if err := s.deps.Banners.SetActive(c.Request.Context(), id, req.Active); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, err)
			return
		}
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "active": req.Active})
}
