package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// Черновики: результаты AI обработки до публикации
type DraftPostgresStorage struct {
	db *sqlx.DB
}

func NewDraftPostgresStorage(db *sqlx.DB) *DraftPostgresStorage {
	return &DraftPostgresStorage{db: db}
}

func (s *DraftPostgresStorage) Add(ctx context.Context, article model.ProcessedArticle, category string) (int64, error) {
	var id int64

	if err := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO drafts (title, body, meta_description, seo_keywords, source_url, source_title, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		article.Title,
		article.Body,
		article.MetaDescription,
		pq.StringArray(article.SEOKeywords),
		article.SourceURL,
		article.SourceTitle,
		category,
		time.Now().UTC(),
	).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert draft")
	}

	return id, nil
}

func (s *DraftPostgresStorage) DraftByID(ctx context.Context, id int64) (*model.Draft, error) {
	var draft dbDraft
	if err := s.db.GetContext(ctx, &draft, `SELECT * FROM drafts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "draft %d", id)
		}
		return nil, errors.Wrapf(err, "get draft %d", id)
	}

	result := draft.toModel()
	return &result, nil
}

// Последние limit неопубликованных черновиков, новые первыми
func (s *DraftPostgresStorage) Drafts(ctx context.Context, limit uint64) ([]model.Draft, error) {
	var drafts []dbDraft
	if err := s.db.SelectContext(
		ctx,
		&drafts,
		`SELECT * FROM drafts WHERE published_at IS NULL ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	); err != nil {
		return nil, errors.Wrap(err, "select drafts")
	}

	return lo.Map(drafts, func(d dbDraft, _ int) model.Draft {
		return d.toModel()
	}), nil
}

// Есть ли уже черновик (в том числе опубликованный) из этой статьи источника
func (s *DraftPostgresStorage) HasSourceURL(ctx context.Context, sourceURL string) (bool, error) {
	var exists bool
	if err := s.db.GetContext(
		ctx,
		&exists,
		`SELECT EXISTS (SELECT 1 FROM drafts WHERE source_url = $1)`,
		sourceURL,
	); err != nil {
		return false, errors.Wrap(err, "check draft source url")
	}
	return exists, nil
}

// ClaimPublication атомарно помечает черновик опубликованным.
// false - черновик уже опубликован (или занят параллельной публикацией).
// Черновик остается в таблице, чтобы синдикация не обработала статью повторно
func (s *DraftPostgresStorage) ClaimPublication(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE drafts SET published_at = $1 WHERE id = $2 AND published_at IS NULL`,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return false, errors.Wrapf(err, "claim draft %d", id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "claim draft %d", id)
	}

	return affected == 1, nil
}

// ReleasePublication снимает отметку, если пост так и не появился
func (s *DraftPostgresStorage) ReleasePublication(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE drafts SET published_at = NULL WHERE id = $1`, id); err != nil {
		return errors.Wrapf(err, "release draft %d", id)
	}
	return nil
}

func (s *DraftPostgresStorage) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id); err != nil {
		return errors.Wrapf(err, "delete draft %d", id)
	}
	return nil
}

type dbDraft struct {
	ID              int64          `db:"id"`
	Title           string         `db:"title"`
	Body            string         `db:"body"`
	MetaDescription string         `db:"meta_description"`
	SEOKeywords     pq.StringArray `db:"seo_keywords"`
	SourceURL       string         `db:"source_url"`
	SourceTitle     string         `db:"source_title"`
	Category        string         `db:"category"`
	CreatedAt       time.Time      `db:"created_at"`
	PublishedAt     sql.NullTime   `db:"published_at"`
}

func (d dbDraft) toModel() model.Draft {
	keywords := []string(d.SEOKeywords)
	if keywords == nil {
		keywords = []string{}
	}

	return model.Draft{
		ID: d.ID,
		Article: model.ProcessedArticle{
			Title:           d.Title,
			Body:            d.Body,
			MetaDescription: d.MetaDescription,
			SEOKeywords:     keywords,
			SourceURL:       d.SourceURL,
			SourceTitle:     d.SourceTitle,
		},
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		PublishedAt: d.PublishedAt.Time,
	}
}
