package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.TopicRepository = (*TopicRepo)(nil)

type TopicRepo struct {
	db *gorm.DB
}

// withCount selects topics joined to their blog count.
func (r *TopicRepo) withCount(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("topics").
		Select("topics.id, topics.name, COUNT(blogs.id) AS blog_count").
		Joins("LEFT JOIN blogs ON blogs.topic_id = topics.id").
		Group("topics.id, topics.name")
}

func (r *TopicRepo) Create(ctx context.Context, topic *model.Topic) error {
	rec := topicRecord{ID: uuid.New(), Name: topic.Name}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("postgres: creating topic: %w", err)
	}
	topic.ID = rec.ID
	topic.BlogCount = 0
	return nil
}

func (r *TopicRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Topic, error) {
	var rows []topicRow
	err := r.withCount(ctx).Where("topics.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: getting topic %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("topic", id.String())
	}
	topic := rows[0].toModel()
	return &topic, nil
}

func (r *TopicRepo) List(ctx context.Context) ([]model.Topic, error) {
	var rows []topicRow
	if err := r.withCount(ctx).Order("topics.name, topics.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres: listing topics: %w", err)
	}
	return toTopics(rows), nil
}

func (r *TopicRepo) Top(ctx context.Context, limit int) ([]model.Topic, error) {
	var rows []topicRow
	err := r.withCount(ctx).
		Order("blog_count DESC, topics.name, topics.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: listing top topics: %w", err)
	}
	return toTopics(rows), nil
}

func (r *TopicRepo) Update(ctx context.Context, topic *model.Topic) error {
	res := r.db.WithContext(ctx).
		Model(&topicRecord{}).
		Where("id = ?", topic.ID).
		Update("name", topic.Name)
	if res.Error != nil {
		return fmt.Errorf("postgres: updating topic %s: %w", topic.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("topic", topic.ID.String())
	}

	fresh, err := r.GetByID(ctx, topic.ID)
	if err != nil {
		return err
	}
	topic.BlogCount = fresh.BlogCount
	return nil
}

// Delete removes the topic row only; blogs keep their topic_id.
func (r *TopicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&topicRecord{})
	if res.Error != nil {
		return fmt.Errorf("postgres: deleting topic %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("topic", id.String())
	}
	return nil
}

func toTopics(rows []topicRow) []model.Topic {
	topics := make([]model.Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.toModel())
	}
	return topics
}
