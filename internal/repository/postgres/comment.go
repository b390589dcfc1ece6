package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

type CommentRepo struct {
	db *gorm.DB
}

// Create inserts the comment after confirming its blog exists. As with
// blogs, a concurrent blog delete can still land between the two.
func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	rec := newCommentRecord(comment)
	rec.ID = uuid.New()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &blogRecord{}, comment.BlogID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidReference("blog_id", "blog", comment.BlogID.String())
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("postgres: creating comment: %w", err)
	}

	comment.ID = rec.ID
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var rec commentRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("comment", id.String())
		}
		return nil, fmt.Errorf("postgres: getting comment %s: %w", id, err)
	}
	comment := rec.toModel()
	return &comment, nil
}

func (r *CommentRepo) List(ctx context.Context) ([]model.Comment, error) {
	var recs []commentRecord
	if err := r.db.WithContext(ctx).Order("commenter, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("postgres: listing comments: %w", err)
	}
	return toComments(recs), nil
}

// ListByBlog applies no ORDER BY: rows come back in whatever order
// PostgreSQL returns them.
func (r *CommentRepo) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]model.Comment, error) {
	var recs []commentRecord
	if err := r.db.WithContext(ctx).Where("blog_id = ?", blogID).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("postgres: listing comments by blog: %w", err)
	}
	return toComments(recs), nil
}

// Update overwrites the comment. The blog is only resolved when blog_id
// changes.
func (r *CommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored commentRecord
		if err := tx.Select("blog_id").Where("id = ?", comment.ID).Take(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("comment", comment.ID.String())
			}
			return err
		}

		if stored.BlogID != comment.BlogID {
			ok, err := rowExists(tx, &blogRecord{}, comment.BlogID)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.InvalidReference("blog_id", "blog", comment.BlogID.String())
			}
		}

		return tx.Model(&commentRecord{}).Where("id = ?", comment.ID).Updates(map[string]any{
			"body":      comment.Body,
			"commenter": comment.Commenter,
			"blog_id":   comment.BlogID,
		}).Error
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("postgres: updating comment %s: %w", comment.ID, err)
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&commentRecord{})
	if res.Error != nil {
		return fmt.Errorf("postgres: deleting comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("comment", id.String())
	}
	return nil
}

func toComments(recs []commentRecord) []model.Comment {
	comments := make([]model.Comment, 0, len(recs))
	for _, rec := range recs {
		comments = append(comments, rec.toModel())
	}
	return comments
}
