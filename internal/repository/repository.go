// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in the sqlite and postgres subpackages.
//
// Contract shared by every implementation:
//   - GetByID, Update and Delete return apperror.ErrNotFound for unknown ids.
//   - Blog and comment writes return apperror.InvalidReference when the
//     parent id does not exist. No row is written in that case.
//   - Deletes never cascade and are never blocked by dependents.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/model"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Topic, error)
	// List returns every topic ordered by name.
	List(ctx context.Context) ([]model.Topic, error)
	Update(ctx context.Context, topic *model.Topic) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Top returns at most limit topics ordered by blog count, highest
	// first. Equal counts are ordered by name, then id.
	Top(ctx context.Context, limit int) ([]model.Topic, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	// List returns every blog ordered by name.
	List(ctx context.Context) ([]model.Blog, error)
	// ListByTopic returns the blogs referencing topicID ordered by name.
	// It does not check that the topic exists.
	ListByTopic(ctx context.Context, topicID uuid.UUID) ([]model.Blog, error)
	Update(ctx context.Context, blog *model.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	// List returns every comment ordered by commenter.
	List(ctx context.Context) ([]model.Comment, error)
	// ListByBlog returns the comments referencing blogID in storage order.
	ListByBlog(ctx context.Context, blogID uuid.UUID) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store bundles the three repositories of one backend and owns the
// underlying connection pool.
type Store interface {
	Topics() TopicRepository
	Blogs() BlogRepository
	Comments() CommentRepository
	Close() error
}
