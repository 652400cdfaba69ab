package storage

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// Ленты, которые воркер синдикации обходит по таймеру
type SourcePostgresStorage struct {
	db *sqlx.DB
}

func NewSourcePostgresStorage(db *sqlx.DB) *SourcePostgresStorage {
	return &SourcePostgresStorage{db: db}
}

var sourceColumns = []string{"id", "name", "feed_url", "category", "created_at"}

func (s *SourcePostgresStorage) Sources(ctx context.Context) ([]model.Source, error) {
	query, args, err := psql.Select(sourceColumns...).From("sources").OrderBy("id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build select sources query")
	}

	var sources []dbSource
	if err := s.db.SelectContext(ctx, &sources, query, args...); err != nil {
		return nil, errors.Wrap(err, "select sources")
	}

	return lo.Map(sources, func(source dbSource, _ int) model.Source {
		return model.Source(source)
	}), nil
}

// Возвращает ErrNotFound, если источника нет
func (s *SourcePostgresStorage) SourceByID(ctx context.Context, id int64) (model.Source, error) {
	query, args, err := psql.Select(sourceColumns...).
		From("sources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Source{}, errors.Wrap(err, "build select source query")
	}

	var source dbSource
	if err := s.db.GetContext(ctx, &source, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Source{}, errors.Wrapf(ErrNotFound, "source %d", id)
		}
		return model.Source{}, errors.Wrapf(err, "get source %d", id)
	}

	return model.Source(source), nil
}

func (s *SourcePostgresStorage) Add(ctx context.Context, source model.Source) (int64, error) {
	if source.CreatedAt.IsZero() {
		source.CreatedAt = time.Now().UTC()
	}

	query, args, err := psql.Insert("sources").
		Columns("name", "feed_url", "category", "created_at").
		Values(source.Name, source.FeedURL, source.Category, source.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build insert source query")
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "insert source")
	}

	return id, nil
}

func (s *SourcePostgresStorage) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("sources").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete source query")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete source %d", id)
	}

	return nil
}

type dbSource struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	FeedURL   string    `db:"feed_url"`
	Category  string    `db:"category"`
	CreatedAt time.Time `db:"created_at"`
}
