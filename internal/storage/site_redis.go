package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

const (
	siteTitleKey = "siteTitle"
	siteThemeKey = "siteTheme"
)

// Настройки внешнего вида сайта
type SiteRedisStorage struct {
	client *redis.Client
}

func NewSiteRedisStorage(client *redis.Client) *SiteRedisStorage {
	return &SiteRedisStorage{client: client}
}

// SiteSettings возвращает сохраненные настройки, незаданные поля берутся по умолчанию
func (s *SiteRedisStorage) SiteSettings(ctx context.Context) (model.SiteSettings, error) {
	values, err := s.client.MGet(ctx, siteTitleKey, siteThemeKey).Result()
	if err != nil {
		return model.SiteSettings{}, errors.Wrap(err, "get site settings")
	}

	var title, theme string
	if v, ok := values[0].(string); ok {
		title = v
	}
	if v, ok := values[1].(string); ok {
		theme = v
	}

	return mergeSiteSettings(title, theme)
}

func (s *SiteRedisStorage) SaveSiteSettings(ctx context.Context, settings model.SiteSettings) error {
	theme, err := json.Marshal(settings.Theme)
	if err != nil {
		return errors.Wrap(err, "encode site theme")
	}

	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, siteTitleKey, settings.Title, 0)
		pipe.Set(ctx, siteThemeKey, theme, 0)
		return nil
	}); err != nil {
		return errors.Wrap(err, "save site settings")
	}

	return nil
}

func mergeSiteSettings(title string, theme string) (model.SiteSettings, error) {
	settings := model.DefaultSiteSettings()

	if title != "" {
		settings.Title = title
	}

	if theme != "" {
		var stored model.SiteTheme
		if err := json.Unmarshal([]byte(theme), &stored); err != nil {
			return model.SiteSettings{}, errors.Wrap(err, "decode site theme")
		}
		if stored.Primary != "" {
			settings.Theme.Primary = stored.Primary
		}
		if stored.Background != "" {
			settings.Theme.Background = stored.Background
		}
		if stored.Accent != "" {
			settings.Theme.Accent = stored.Accent
		}
	}

	return settings, nil
}
