package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// TopTopicsLimit caps the "top topics" listing.
const TopTopicsLimit = 10

// TopicInput is a create or update request. Nil fields were not supplied.
type TopicInput struct {
	Name *string
}

type TopicService struct {
	topics repository.TopicRepository
	blogs  repository.BlogRepository
	logger *slog.Logger
}

func NewTopicService(topics repository.TopicRepository, blogs repository.BlogRepository, logger *slog.Logger) *TopicService {
	return &TopicService{
		topics: topics,
		blogs:  blogs,
		logger: logger,
	}
}

func (s *TopicService) List(ctx context.Context) ([]model.Topic, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		logFailure(ctx, s.logger, "failed to list topics", err)
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

func (s *TopicService) Get(ctx context.Context, id uuid.UUID) (*model.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		logFailure(ctx, s.logger, "failed to get topic", err, slog.String("id", id.String()))
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) Create(ctx context.Context, in TopicInput) (*model.Topic, error) {
	errs := fieldErrors{}
	name, _ := errs.text("name", in.Name, model.MaxTopicNameLength, true)
	if err := errs.err(); err != nil {
		return nil, err
	}

	topic := &model.Topic{Name: name}
	if err := s.topics.Create(ctx, topic); err != nil {
		logFailure(ctx, s.logger, "failed to create topic", err, slog.String("name", name))
		return nil, fmt.Errorf("creating topic: %w", err)
	}

	s.logger.Info("topic created",
		slog.String("id", topic.ID.String()),
		slog.String("name", topic.Name),
	)
	return topic, nil
}

// Update replaces (partial=false) or patches (partial=true) a topic. A
// full update requires every required field; a patch validates only the
// supplied ones.
func (s *TopicService) Update(ctx context.Context, id uuid.UUID, in TopicInput, partial bool) (*model.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if name, ok := errs.text("name", in.Name, model.MaxTopicNameLength, !partial); ok {
		topic.Name = name
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.topics.Update(ctx, topic); err != nil {
		logFailure(ctx, s.logger, "failed to update topic", err, slog.String("id", id.String()))
		return nil, fmt.Errorf("updating topic: %w", err)
	}

	s.logger.Info("topic updated",
		slog.String("id", topic.ID.String()),
		slog.String("name", topic.Name),
	)
	return topic, nil
}

// Delete removes the topic. Blogs under it are left in place with a
// dangling topic reference.
func (s *TopicService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.topics.Delete(ctx, id); err != nil {
		logFailure(ctx, s.logger, "failed to delete topic", err, slog.String("id", id.String()))
		return err
	}

	s.logger.Info("topic deleted", slog.String("id", id.String()))
	return nil
}

// Top returns up to TopTopicsLimit topics ordered by blog count, highest
// first.
func (s *TopicService) Top(ctx context.Context) ([]model.Topic, error) {
	topics, err := s.topics.Top(ctx, TopTopicsLimit)
	if err != nil {
		logFailure(ctx, s.logger, "failed to list top topics", err)
		return nil, fmt.Errorf("listing top topics: %w", err)
	}
	return topics, nil
}

// Blogs returns the blogs of one topic ordered by name. An unknown topic
// is a NotFound, not an empty list.
func (s *TopicService) Blogs(ctx context.Context, topicID uuid.UUID) ([]model.Blog, error) {
	if _, err := s.Get(ctx, topicID); err != nil {
		return nil, err
	}

	blogs, err := s.blogs.ListByTopic(ctx, topicID)
	if err != nil {
		logFailure(ctx, s.logger, "failed to list topic blogs", err, slog.String("topic_id", topicID.String()))
		return nil, fmt.Errorf("listing blogs for topic: %w", err)
	}
	return blogs, nil
}
