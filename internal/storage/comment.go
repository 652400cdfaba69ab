package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type CommentPostgresStorage struct {
	db *sqlx.DB
}

func NewCommentPostgresStorage(db *sqlx.DB) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db}
}

func (s *CommentPostgresStorage) Add(ctx context.Context, comment model.Comment) (model.Comment, error) {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	if err := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO comments (post_id, author, text, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		comment.PostID,
		comment.Author,
		comment.Text,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return model.Comment{}, errors.Wrap(err, "insert comment")
	}

	return comment, nil
}

// Комментарии поста, старые первыми
func (s *CommentPostgresStorage) CommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	var comments []dbComment
	if err := s.db.SelectContext(
		ctx,
		&comments,
		`SELECT id, post_id, author, text, created_at FROM comments WHERE post_id = $1 ORDER BY created_at, id`,
		postID,
	); err != nil {
		return nil, errors.Wrapf(err, "select comments of post %s", postID)
	}

	return lo.Map(comments, func(c dbComment, _ int) model.Comment {
		return model.Comment(c)
	}), nil
}

type dbComment struct {
	ID        int64     `db:"id"`
	PostID    string    `db:"post_id"`
	Author    string    `db:"author"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}
