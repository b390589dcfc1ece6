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

var _ repository.BlogRepository = (*BlogRepo)(nil)

const blogColumns = `id, name, body, author, tags, topic_id`

type BlogRepo struct {
	conn *sql.DB
}

// Create generates the blog's ID and inserts it, provided blog.TopicID
// names an existing topic. The INSERT ... SELECT ... WHERE EXISTS form makes
// the check and the write one statement: an unknown topic inserts nothing
// and is reported as apperror.InvalidReference.
func (r *BlogRepo) Create(ctx context.Context, blog *model.Blog) error {
	tags, err := encodeTags(blog.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: creating blog: %w", err)
	}
	id := uuid.New()

	result, err := r.conn.ExecContext(ctx,
		`INSERT INTO blogs (`+blogColumns+`)
		 SELECT ?, ?, ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM topics WHERE id = ?)`,
		id, blog.Name, blog.Body, blog.Author, tags, blog.TopicID,
		blog.TopicID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating blog: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.InvalidReference("topic_id", "topic", blog.TopicID.String())
	}

	blog.ID = id
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	return nil
}

func (r *BlogRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id)

	blog, err := scanBlog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("blog", id.String())
		}
		return nil, fmt.Errorf("sqlite: getting blog %s: %w", id, err)
	}
	return blog, nil
}

func (r *BlogRepo) List(ctx context.Context) ([]model.Blog, error) {
	return r.query(ctx, "listing blogs",
		`SELECT `+blogColumns+` FROM blogs ORDER BY name, rowid`)
}

func (r *BlogRepo) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]model.Blog, error) {
	return r.query(ctx, "listing blogs by topic",
		`SELECT `+blogColumns+` FROM blogs WHERE topic_id = ? ORDER BY name, rowid`,
		topicID,
	)
}

// Update overwrites every stored field of the blog. Like Create, the
// topic check is part of the UPDATE, but it only applies when topic_id
// changes: a blog whose topic was deleted can still be edited as long as
// it keeps that topic_id. When no row changes, a second lookup tells a
// missing blog (NotFound) from a missing topic (InvalidReference).
func (r *BlogRepo) Update(ctx context.Context, blog *model.Blog) error {
	tags, err := encodeTags(blog.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: updating blog %s: %w", blog.ID, err)
	}

	result, err := r.conn.ExecContext(ctx,
		`UPDATE blogs
		 SET name = ?, body = ?, author = ?, tags = ?, topic_id = ?
		 WHERE id = ?
		   AND (topic_id = ? OR EXISTS (SELECT 1 FROM topics WHERE id = ?))`,
		blog.Name, blog.Body, blog.Author, tags, blog.TopicID,
		blog.ID, blog.TopicID, blog.TopicID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating blog %s: %w", blog.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected > 0 {
		if blog.Tags == nil {
			blog.Tags = []string{}
		}
		return nil
	}

	found, err := exists(ctx, r.conn, "blogs", blog.ID)
	if err != nil {
		return fmt.Errorf("sqlite: checking blog %s: %w", blog.ID, err)
	}
	if !found {
		return apperror.NotFound("blog", blog.ID.String())
	}
	return apperror.InvalidReference("topic_id", "topic", blog.TopicID.String())
}

// Delete removes the blog only. Its comments keep their blog_id.
func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting blog %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("blog", id.String())
	}
	return nil
}

func (r *BlogRepo) query(ctx context.Context, op, query string, args ...any) ([]model.Blog, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	blogs := make([]model.Blog, 0)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning blog row: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating blogs: %w", err)
	}
	return blogs, nil
}

func scanBlog(row rowScanner) (*model.Blog, error) {
	var (
		b    model.Blog
		tags string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Body, &b.Author, &tags, &b.TopicID); err != nil {
		return nil, err
	}

	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, err
	}
	b.Tags = decoded
	return &b, nil
}
