package storage

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// Запросы к postgres с плейсхолдерами $1, $2...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type BannerFilter struct {
	// Пустое значение - все места
	Placement  model.BannerPlacement
	ActiveOnly bool
}

type BannerPostgresStorage struct {
	db *sqlx.DB
}

func NewBannerPostgresStorage(db *sqlx.DB) *BannerPostgresStorage {
	return &BannerPostgresStorage{db: db}
}

func (s *BannerPostgresStorage) Add(ctx context.Context, banner model.Banner) (model.Banner, error) {
	if !banner.Placement.Valid() {
		return model.Banner{}, errors.Errorf("unknown banner placement %q", banner.Placement)
	}
	if banner.CreatedAt.IsZero() {
		banner.CreatedAt = time.Now().UTC()
	}

	query, args, err := insertBannerQuery(banner).ToSql()
	if err != nil {
		return model.Banner{}, errors.Wrap(err, "build insert banner query")
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&banner.ID); err != nil {
		return model.Banner{}, errors.Wrap(err, "insert banner")
	}

	return banner, nil
}

func (s *BannerPostgresStorage) SetActive(ctx context.Context, id int64, active bool) error {
	query, args, err := psql.Update("banners").
		Set("active", active).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build update banner query")
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update banner %d", id)
	}

	return requireAffected(res, "banner", id)
}

func (s *BannerPostgresStorage) Banners(ctx context.Context, filter BannerFilter) ([]model.Banner, error) {
	query, args, err := selectBannersQuery(filter).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build select banners query")
	}

	var banners []dbBanner
	if err := s.db.SelectContext(ctx, &banners, query, args...); err != nil {
		return nil, errors.Wrap(err, "select banners")
	}

	return lo.Map(banners, func(b dbBanner, _ int) model.Banner {
		return model.Banner{
			ID:        b.ID,
			HTML:      b.HTML,
			Placement: model.BannerPlacement(b.Placement),
			Active:    b.Active,
			CreatedAt: b.CreatedAt,
		}
	}), nil
}

func insertBannerQuery(banner model.Banner) sq.InsertBuilder {
	return psql.Insert("banners").
		Columns("html", "placement", "active", "created_at").
		Values(banner.HTML, string(banner.Placement), banner.Active, banner.CreatedAt).
		Suffix("RETURNING id")
}

func selectBannersQuery(filter BannerFilter) sq.SelectBuilder {
	query := psql.Select("id", "html", "placement", "active", "created_at").
		From("banners").
		OrderBy("id")

	if filter.Placement != "" {
		query = query.Where(sq.Eq{"placement": string(filter.Placement)})
	}
	if filter.ActiveOnly {
		query = query.Where(sq.Eq{"active": true})
	}

	return query
}

type dbBanner struct {
	ID        int64     `db:"id"`
	HTML      string    `db:"html"`
	Placement string    `db:"placement"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}
