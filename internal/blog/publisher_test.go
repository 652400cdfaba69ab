package blog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/autoblog/internal/model"
)

type fakeDrafts struct {
	mu        sync.Mutex
	drafts    map[int64]*model.Draft
	published []int64
	released  []int64
}

func (f *fakeDrafts) DraftByID(_ context.Context, id int64) (*model.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft, ok := f.drafts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeDrafts) ClaimPublication(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft, ok := f.drafts[id]
	if !ok || !draft.PublishedAt.IsZero() {
		return false, nil
	}
	draft.PublishedAt = time.Now()
	f.published = append(f.published, id)
	return true, nil
}

func (f *fakeDrafts) ReleasePublication(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.drafts[id].PublishedAt = time.Time{}
	f.released = append(f.released, id)
	return nil
}

type fakeAnnouncer struct {
	posts []model.Post
	err   error
}

func (f *fakeAnnouncer) Notify(_ context.Context, post model.Post) error {
	f.posts = append(f.posts, post)
	return f.err
}

func TestPublishDraft(t *testing.T) {
	drafts := &fakeDrafts{drafts: map[int64]*model.Draft{
		7: {
			ID:       7,
			Category: "EVs",
			Article: model.ProcessedArticle{
				Title:           "Charging at home",
				Body:            "Long body [see also: wallbox]",
				MetaDescription: "How to charge at home.",
			},
		},
	}}
	announcer := &fakeAnnouncer{err: errors.New("telegram down")}
	store := newTestStore(&memoryPersister{})

	post, err := NewPublisher(drafts, store, announcer).PublishDraft(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "charging-at-home", post.Slug)
	assert.Equal(t, "How to charge at home.", post.Excerpt)
	assert.Equal(t, "EVs", post.Category)
	assert.Equal(t, []int64{7}, drafts.published)
	assert.Len(t, announcer.posts, 1)

	_, ok := store.PostBySlug("charging-at-home")
	assert.True(t, ok)
}

func TestPublishDraftErrors(t *testing.T) {
	drafts := &fakeDrafts{drafts: map[int64]*model.Draft{
		1: {ID: 1, PublishedAt: time.Now(), Article: model.ProcessedArticle{Title: "T", Body: "B"}},
	}}
	publisher := NewPublisher(drafts, newTestStore(&memoryPersister{}), nil)

	_, err := publisher.PublishDraft(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	_, err = publisher.PublishDraft(context.Background(), 2)
	assert.Error(t, err)
	assert.Empty(t, drafts.published)
}

func TestPublishDraftConcurrently(t *testing.T) {
	drafts := &fakeDrafts{drafts: map[int64]*model.Draft{
		5: {ID: 5, Article: model.ProcessedArticle{Title: "Hybrid or EV", Body: "Body"}},
	}}
	store := newTestStore(&memoryPersister{})
	publisher := NewPublisher(drafts, store, nil)

	const callers = 8
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = publisher.PublishDraft(context.Background(), 5)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyPublished)
	}

	assert.Equal(t, 1, succeeded)
	assert.Len(t, store.Posts(), 1)
}

func TestPublishDraftReleasesClaimOnFailure(t *testing.T) {
	drafts := &fakeDrafts{drafts: map[int64]*model.Draft{
		9: {ID: 9, Article: model.ProcessedArticle{Title: "Brake pads", Body: "Body"}},
	}}
	persister := &memoryPersister{saveErr: errors.New("redis down")}
	publisher := NewPublisher(drafts, newTestStore(persister), nil)

	_, err := publisher.PublishDraft(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, []int64{9}, drafts.released)
	assert.True(t, drafts.drafts[9].PublishedAt.IsZero())

	persister.saveErr = nil
	post, err := publisher.PublishDraft(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "brake-pads", post.Slug)
}
