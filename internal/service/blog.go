package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// BlogInput is a create or update request. Nil fields were not supplied.
// TopicID is the raw topic identifier from the request body.
type BlogInput struct {
	Name    *string
	Body    *string
	Author  *string
	Tags    *[]string
	TopicID *string
}

type BlogService struct {
	blogs    repository.BlogRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewBlogService(blogs repository.BlogRepository, comments repository.CommentRepository, logger *slog.Logger) *BlogService {
	return &BlogService{
		blogs:    blogs,
		comments: comments,
		logger:   logger,
	}
}

func (s *BlogService) List(ctx context.Context) ([]model.Blog, error) {
	blogs, err := s.blogs.List(ctx)
	if err != nil {
		logFailure(ctx, s.logger, "failed to list blogs", err)
		return nil, fmt.Errorf("listing blogs: %w", err)
	}
	return blogs, nil
}

func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.logger, "failed to get blog", err, slog.String("id", id.String()))
		return nil, err
	}
	return blog, nil
}

// Create validates the input and stores the blog. An unknown topic_id is
// rejected by the repository with a topic_id validation error and nothing
// is stored.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (*model.Blog, error) {
	blog := &model.Blog{Tags: []string{}}
	if err := applyBlogInput(blog, in, false); err != nil {
		return nil, err
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		logFailure(ctx, s.logger, "failed to create blog", err, slog.String("name", blog.Name))
		return nil, fmt.Errorf("creating blog: %w", err)
	}

	s.logger.Info("blog created",
		slog.String("id", blog.ID.String()),
		slog.String("topic_id", blog.TopicID.String()),
	)
	return blog, nil
}

// Update replaces (partial=false) or patches (partial=true) a blog. Tags
// are optional in both modes and keep their stored value when omitted.
func (s *BlogService) Update(ctx context.Context, id uuid.UUID, in BlogInput, partial bool) (*model.Blog, error) {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyBlogInput(blog, in, partial); err != nil {
		return nil, err
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		logFailure(ctx, s.logger, "failed to update blog", err, slog.String("id", id.String()))
		return nil, fmt.Errorf("updating blog: %w", err)
	}

	s.logger.Info("blog updated",
		slog.String("id", blog.ID.String()),
		slog.String("topic_id", blog.TopicID.String()),
	)
	return blog, nil
}

// Delete removes the blog. Its comments are left in place with a dangling
// blog reference.
func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		logFailure(ctx, s.logger, "failed to delete blog", err, slog.String("id", id.String()))
		return err
	}

	s.logger.Info("blog deleted", slog.String("id", id.String()))
	return nil
}

// Comments returns the comments of one blog in storage order. An unknown
// blog is a NotFound, not an empty list.
func (s *BlogService) Comments(ctx context.Context, blogID uuid.UUID) ([]model.Comment, error) {
	if _, err := s.Get(ctx, blogID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByBlog(ctx, blogID)
	if err != nil {
		logFailure(ctx, s.logger, "failed to list blog comments", err, slog.String("blog_id", blogID.String()))
		return nil, fmt.Errorf("listing comments for blog: %w", err)
	}
	return comments, nil
}

// applyBlogInput validates in and copies the supplied fields onto blog.
// blog is left untouched when any field is invalid.
func applyBlogInput(blog *model.Blog, in BlogInput, partial bool) error {
	required := !partial
	errs := fieldErrors{}

	name, hasName := errs.text("name", in.Name, model.MaxBlogNameLength, required)
	body, hasBody := errs.text("body", in.Body, 0, required)
	author, hasAuthor := errs.text("author", in.Author, model.MaxAuthorLength, required)
	tags, hasTags := errs.tags("tags", in.Tags)
	topicID, hasTopic := errs.ref("topic_id", in.TopicID, required)

	if err := errs.err(); err != nil {
		return err
	}

	if hasName {
		blog.Name = name
	}
	if hasBody {
		blog.Body = body
	}
	if hasAuthor {
		blog.Author = author
	}
	if hasTags {
		blog.Tags = tags
	}
	if hasTopic {
		blog.TopicID = topicID
	}
	return nil
}
