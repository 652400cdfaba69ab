package blog

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

var ErrAlreadyPublished = errors.New("already published")

type DraftProvider interface {
	DraftByID(ctx context.Context, id int64) (*model.Draft, error)
	// false, если черновик уже опубликован
	ClaimPublication(ctx context.Context, id int64) (bool, error)
	ReleasePublication(ctx context.Context, id int64) error
}

type Announcer interface {
	Notify(ctx context.Context, post model.Post) error
}

// Publisher превращает проверенный редактором черновик в пост
type Publisher struct {
	drafts    DraftProvider
	store     *Store
	announcer Announcer
}

func NewPublisher(drafts DraftProvider, store *Store, announcer Announcer) *Publisher {
	return &Publisher{drafts: drafts, store: store, announcer: announcer}
}

// PublishDraft публикует черновик ровно один раз: черновик сначала занимается в хранилище,
// и только потом появляется пост
func (p *Publisher) PublishDraft(ctx context.Context, id int64) (model.Post, error) {
	draft, err := p.drafts.DraftByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	claimed, err := p.drafts.ClaimPublication(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if !claimed {
		return model.Post{}, errors.Wrapf(ErrAlreadyPublished, "draft %d", id)
	}

	post, err := p.Publish(ctx, PostDraftFromArticle(draft.Article, draft.Category))
	if err != nil {
		if releaseErr := p.drafts.ReleasePublication(ctx, id); releaseErr != nil {
			zap.S().Errorf("draft %d stays claimed after failed publish: %v", id, releaseErr)
		}
		return model.Post{}, err
	}

	return post, nil
}

// Publish добавляет пост в блог и анонсирует его. Ошибка анонса публикацию не отменяет
func (p *Publisher) Publish(ctx context.Context, draft model.PostDraft) (model.Post, error) {
	post, err := p.store.AddPost(ctx, draft)
	if err != nil {
		return model.Post{}, err
	}

	if p.announcer != nil {
		if err := p.announcer.Notify(ctx, post); err != nil {
			zap.S().Warnf("failed to announce post %s: %v", post.Slug, err)
		}
	}

	return post, nil
}

// Выдержкой поста становится meta description
func PostDraftFromArticle(article model.ProcessedArticle, category string) model.PostDraft {
	return model.PostDraft{
		Title:    article.Title,
		Content:  article.Body,
		Excerpt:  article.MetaDescription,
		Category: category,
	}
}
