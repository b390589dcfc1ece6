package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// =========================================================================
// IN-MEMORY REPOSITORIES
// =========================================================================
//
// memStore implements the three repository interfaces over maps, with the
// same reference and not-found rules as the SQL backends. order records
// insertion order so "storage order" listings are deterministic.

type memStore struct {
	topics   map[uuid.UUID]model.Topic
	blogs    map[uuid.UUID]model.Blog
	comments map[uuid.UUID]model.Comment
	order    []uuid.UUID

	failWith error // when set, every call returns it
}

func newMemStore() *memStore {
	return &memStore{
		topics:   map[uuid.UUID]model.Topic{},
		blogs:    map[uuid.UUID]model.Blog{},
		comments: map[uuid.UUID]model.Comment{},
	}
}

type memTopics struct{ *memStore }
type memBlogs struct{ *memStore }
type memComments struct{ *memStore }

func (m *memStore) count(topicID uuid.UUID) int {
	n := 0
	for _, b := range m.blogs {
		if b.TopicID == topicID {
			n++
		}
	}
	return n
}

func (m memTopics) Create(_ context.Context, t *model.Topic) error {
	if m.failWith != nil {
		return m.failWith
	}
	t.ID = uuid.New()
	t.BlogCount = 0
	m.topics[t.ID] = *t
	m.order = append(m.order, t.ID)
	return nil
}

func (m memTopics) GetByID(_ context.Context, id uuid.UUID) (*model.Topic, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	t, ok := m.topics[id]
	if !ok {
		return nil, apperror.NotFound("topic", id.String())
	}
	t.BlogCount = m.count(id)
	return &t, nil
}

func (m memTopics) List(_ context.Context) ([]model.Topic, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := make([]model.Topic, 0, len(m.topics))
	for _, t := range m.topics {
		t.BlogCount = m.count(t.ID)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memTopics) Update(_ context.Context, t *model.Topic) error {
	if _, ok := m.topics[t.ID]; !ok {
		return apperror.NotFound("topic", t.ID.String())
	}
	m.topics[t.ID] = model.Topic{ID: t.ID, Name: t.Name}
	t.BlogCount = m.count(t.ID)
	return nil
}

func (m memTopics) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.topics[id]; !ok {
		return apperror.NotFound("topic", id.String())
	}
	delete(m.topics, id)
	return nil
}

func (m memTopics) Top(ctx context.Context, limit int) ([]model.Topic, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].BlogCount > all[j].BlogCount })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m memBlogs) Create(_ context.Context, b *model.Blog) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.topics[b.TopicID]; !ok {
		return apperror.InvalidReference("topic_id", "topic", b.TopicID.String())
	}
	b.ID = uuid.New()
	m.blogs[b.ID] = *b
	m.order = append(m.order, b.ID)
	return nil
}

func (m memBlogs) GetByID(_ context.Context, id uuid.UUID) (*model.Blog, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	b, ok := m.blogs[id]
	if !ok {
		return nil, apperror.NotFound("blog", id.String())
	}
	return &b, nil
}

func (m memBlogs) List(_ context.Context) ([]model.Blog, error) {
	return m.filter(func(model.Blog) bool { return true }), nil
}

func (m memBlogs) ListByTopic(_ context.Context, topicID uuid.UUID) ([]model.Blog, error) {
	return m.filter(func(b model.Blog) bool { return b.TopicID == topicID }), nil
}

func (m memBlogs) filter(keep func(model.Blog) bool) []model.Blog {
	out := make([]model.Blog, 0)
	for _, b := range m.blogs {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m memBlogs) Update(_ context.Context, b *model.Blog) error {
	if m.failWith != nil {
		return m.failWith
	}
	stored, ok := m.blogs[b.ID]
	if !ok {
		return apperror.NotFound("blog", b.ID.String())
	}
	if _, ok := m.topics[b.TopicID]; !ok && stored.TopicID != b.TopicID {
		return apperror.InvalidReference("topic_id", "topic", b.TopicID.String())
	}
	m.blogs[b.ID] = *b
	return nil
}

func (m memBlogs) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.blogs[id]; !ok {
		return apperror.NotFound("blog", id.String())
	}
	delete(m.blogs, id)
	return nil
}

func (m memComments) Create(_ context.Context, c *model.Comment) error {
	if _, ok := m.blogs[c.BlogID]; !ok {
		return apperror.InvalidReference("blog_id", "blog", c.BlogID.String())
	}
	c.ID = uuid.New()
	m.comments[c.ID] = *c
	m.order = append(m.order, c.ID)
	return nil
}

func (m memComments) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id.String())
	}
	return &c, nil
}

func (m memComments) List(_ context.Context) ([]model.Comment, error) {
	out := make([]model.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Commenter < out[j].Commenter })
	return out, nil
}

func (m memComments) ListByBlog(_ context.Context, blogID uuid.UUID) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, id := range m.order {
		if c, ok := m.comments[id]; ok && c.BlogID == blogID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memComments) Update(_ context.Context, c *model.Comment) error {
	stored, ok := m.comments[c.ID]
	if !ok {
		return apperror.NotFound("comment", c.ID.String())
	}
	if _, ok := m.blogs[c.BlogID]; !ok && stored.BlogID != c.BlogID {
		return apperror.InvalidReference("blog_id", "blog", c.BlogID.String())
	}
	m.comments[c.ID] = *c
	return nil
}

func (m memComments) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.comments[id]; !ok {
		return apperror.NotFound("comment", id.String())
	}
	delete(m.comments, id)
	return nil
}

// =========================================================================
// HELPERS
// =========================================================================

type testServices struct {
	store    *memStore
	topics   *TopicService
	blogs    *BlogService
	comments *CommentService
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return testServices{
		store:    store,
		topics:   NewTopicService(memTopics{store}, memBlogs{store}, logger),
		blogs:    NewBlogService(memBlogs{store}, memComments{store}, logger),
		comments: NewCommentService(memComments{store}, logger),
	}
}

func ptr[T any](v T) *T { return &v }

func mustTopic(t *testing.T, svc testServices, name string) *model.Topic {
	t.Helper()
	topic, err := svc.topics.Create(context.Background(), TopicInput{Name: ptr(name)})
	if err != nil {
		t.Fatalf("creating topic: %v", err)
	}
	return topic
}

func mustBlog(t *testing.T, svc testServices, topic *model.Topic, name string) *model.Blog {
	t.Helper()
	blog, err := svc.blogs.Create(context.Background(), BlogInput{
		Name:    ptr(name),
		Body:    ptr("body"),
		Author:  ptr("ada"),
		TopicID: ptr(topic.ID.String()),
	})
	if err != nil {
		t.Fatalf("creating blog: %v", err)
	}
	return blog
}

// fieldsOf returns the field errors carried by err, failing the test when
// err is not a validation error.
func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want a validation error", err)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an *AppError", err)
	}
	return appErr.Fields
}
