package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

// Весь список постов лежит одним JSON под этим ключом
const postsKey = "blogPosts"

type PostRedisStorage struct {
	client *redis.Client
}

func NewPostRedisStorage(client *redis.Client) *PostRedisStorage {
	return &PostRedisStorage{client: client}
}

func (s *PostRedisStorage) LoadPosts(ctx context.Context) ([]model.Post, error) {
	data, err := s.client.Get(ctx, postsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.Post{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get posts")
	}

	return decodePosts(data)
}

func (s *PostRedisStorage) SavePosts(ctx context.Context, posts []model.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return errors.Wrap(err, "encode posts")
	}

	if err := s.client.Set(ctx, postsKey, data, 0).Err(); err != nil {
		return errors.Wrap(err, "set posts")
	}

	return nil
}

// null в ключе считаем пустым списком
func decodePosts(data []byte) ([]model.Post, error) {
	var posts []model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, errors.Wrap(err, "decode posts")
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}
