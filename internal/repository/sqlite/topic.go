package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.TopicRepository = (*TopicRepo)(nil)

// topicColumns selects a topic together with its derived blog count. The
// count is a correlated subquery so it is always computed from the blogs
// table at read time.
const topicColumns = `
	t.id, t.name,
	(SELECT COUNT(*) FROM blogs b WHERE b.topic_id = t.id) AS blog_count`

type TopicRepo struct {
	conn *sql.DB
}

// Create generates the topic's ID and inserts it. BlogCount is reset to
// zero: a new topic cannot have blogs yet.
func (r *TopicRepo) Create(ctx context.Context, topic *model.Topic) error {
	topic.ID = uuid.New()
	topic.BlogCount = 0

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO topics (id, name) VALUES (?, ?)`,
		topic.ID, topic.Name,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating topic: %w", err)
	}
	return nil
}

func (r *TopicRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Topic, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+topicColumns+` FROM topics t WHERE t.id = ?`, id)

	topic, err := scanTopic(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("topic", id.String())
		}
		return nil, fmt.Errorf("sqlite: getting topic %s: %w", id, err)
	}
	return topic, nil
}

func (r *TopicRepo) List(ctx context.Context) ([]model.Topic, error) {
	return r.query(ctx, "listing topics",
		`SELECT `+topicColumns+` FROM topics t ORDER BY t.name, t.rowid`)
}

func (r *TopicRepo) Top(ctx context.Context, limit int) ([]model.Topic, error) {
	return r.query(ctx, "listing top topics",
		`SELECT `+topicColumns+`
		 FROM topics t
		 ORDER BY blog_count DESC, t.name, t.id
		 LIMIT ?`,
		limit,
	)
}

// Update renames the topic and refreshes BlogCount from storage.
func (r *TopicRepo) Update(ctx context.Context, topic *model.Topic) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE topics SET name = ? WHERE id = ?`,
		topic.Name, topic.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating topic %s: %w", topic.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("topic", topic.ID.String())
	}

	fresh, err := r.GetByID(ctx, topic.ID)
	if err != nil {
		return err
	}
	topic.BlogCount = fresh.BlogCount
	return nil
}

// Delete removes the topic only. Its blogs keep their topic_id.
func (r *TopicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting topic %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("topic", id.String())
	}
	return nil
}

func (r *TopicRepo) query(ctx context.Context, op, query string, args ...any) ([]model.Topic, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	topics := make([]model.Topic, 0)
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning topic row: %w", err)
		}
		topics = append(topics, *topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating topics: %w", err)
	}
	return topics, nil
}

func scanTopic(row rowScanner) (*model.Topic, error) {
	var t model.Topic
	if err := row.Scan(&t.ID, &t.Name, &t.BlogCount); err != nil {
		return nil, err
	}
	return &t, nil
}
