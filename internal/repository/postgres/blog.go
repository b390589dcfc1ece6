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

var _ repository.BlogRepository = (*BlogRepo)(nil)

type BlogRepo struct {
	db *gorm.DB
}

// rowExists reports whether record's table holds a row with the given id.
func rowExists(tx *gorm.DB, record any, id uuid.UUID) (bool, error) {
	var n int64
	if err := tx.Model(record).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts the blog after confirming its topic exists, both inside
// one transaction. Under read committed a concurrent topic delete can
// still land between the check and the insert.
func (r *BlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	rec := newBlogRecord(blog)
	rec.ID = uuid.New()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &topicRecord{}, blog.TopicID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidReference("topic_id", "topic", blog.TopicID.String())
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("postgres: creating blog: %w", err)
	}

	*blog = rec.toModel()
	return nil
}

func (r *BlogRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var rec blogRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("blog", id.String())
		}
		return nil, fmt.Errorf("postgres: getting blog %s: %w", id, err)
	}
	blog := rec.toModel()
	return &blog, nil
}

func (r *BlogRepo) List(ctx context.Context) ([]model.Blog, error) {
	var recs []blogRecord
	if err := r.db.WithContext(ctx).Order("name, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("postgres: listing blogs: %w", err)
	}
	return toBlogs(recs), nil
}

func (r *BlogRepo) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]model.Blog, error) {
	var recs []blogRecord
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("name, id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: listing blogs by topic: %w", err)
	}
	return toBlogs(recs), nil
}

// Update overwrites the blog. The topic is only resolved when topic_id
// changes, so a blog whose topic was deleted stays editable.
func (r *BlogRepo) Update(ctx context.Context, blog *model.Blog) error {
	rec := newBlogRecord(blog)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored blogRecord
		if err := tx.Select("topic_id").Where("id = ?", blog.ID).Take(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("blog", blog.ID.String())
			}
			return err
		}

		if stored.TopicID != blog.TopicID {
			ok, err := rowExists(tx, &topicRecord{}, blog.TopicID)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.InvalidReference("topic_id", "topic", blog.TopicID.String())
			}
		}

		// A map update writes every column, including empty values.
		return tx.Model(&blogRecord{}).Where("id = ?", blog.ID).Updates(map[string]any{
			"name":     rec.Name,
			"body":     rec.Body,
			"author":   rec.Author,
			"tags":     rec.Tags,
			"topic_id": rec.TopicID,
		}).Error
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("postgres: updating blog %s: %w", blog.ID, err)
	}

	blog.Tags = []string(rec.Tags)
	return nil
}

// Delete removes the blog row only; comments keep their blog_id.
func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&blogRecord{})
	if res.Error != nil {
		return fmt.Errorf("postgres: deleting blog %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("blog", id.String())
	}
	return nil
}

func toBlogs(recs []blogRecord) []model.Blog {
	blogs := make([]model.Blog, 0, len(recs))
	for _, rec := range recs {
		blogs = append(blogs, rec.toModel())
	}
	return blogs
}
