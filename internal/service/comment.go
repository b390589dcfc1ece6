package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// CommentInput is a create or update request. Nil fields were not supplied.
type CommentInput struct {
	Body      *string
	Commenter *string
	BlogID    *string
}

type CommentService struct {
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		logger:   logger,
	}
}

func (s *CommentService) List(ctx context.Context) ([]model.Comment, error) {
	comments, err := s.comments.List(ctx)
	if err != nil {
		logFailure(ctx, s.logger, "failed to list comments", err)
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.logger, "failed to get comment", err, slog.String("id", id.String()))
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, in CommentInput) (*model.Comment, error) {
	comment := &model.Comment{}
	if err := applyCommentInput(comment, in, false); err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		logFailure(ctx, s.logger, "failed to create comment", err, slog.String("blog_id", comment.BlogID.String()))
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID.String()),
		slog.String("blog_id", comment.BlogID.String()),
	)
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, id uuid.UUID, in CommentInput, partial bool) (*model.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCommentInput(comment, in, partial); err != nil {
		return nil, err
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		logFailure(ctx, s.logger, "failed to update comment", err, slog.String("id", id.String()))
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	s.logger.Info("comment updated", slog.String("id", comment.ID.String()))
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		logFailure(ctx, s.logger, "failed to delete comment", err, slog.String("id", id.String()))
		return err
	}

	s.logger.Info("comment deleted", slog.String("id", id.String()))
	return nil
}

func applyCommentInput(comment *model.Comment, in CommentInput, partial bool) error {
	required := !partial
	errs := fieldErrors{}

	body, hasBody := errs.text("body", in.Body, 0, required)
	commenter, hasCommenter := errs.text("commenter", in.Commenter, model.MaxCommenterLength, required)
	blogID, hasBlog := errs.ref("blog_id", in.BlogID, required)

	if err := errs.err(); err != nil {
		return err
	}

	if hasBody {
		comment.Body = body
	}
	if hasCommenter {
		comment.Commenter = commenter
	}
	if hasBlog {
		comment.BlogID = blogID
	}
	return nil
}
