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

var _ repository.CommentRepository = (*CommentRepo)(nil)

const commentColumns = `id, body, commenter, blog_id`

type CommentRepo struct {
	conn *sql.DB
}

// Create inserts the comment if comment.BlogID names an existing blog.
// See BlogRepo.Create for how the reference is checked.
func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	id := uuid.New()

	result, err := r.conn.ExecContext(ctx,
		`INSERT INTO comments (`+commentColumns+`)
		 SELECT ?, ?, ?, ?
		 WHERE EXISTS (SELECT 1 FROM blogs WHERE id = ?)`,
		id, comment.Body, comment.Commenter, comment.BlogID,
		comment.BlogID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.InvalidReference("blog_id", "blog", comment.BlogID.String())
	}

	comment.ID = id
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var c model.Comment
	err := r.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.Body, &c.Commenter, &c.BlogID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id.String())
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return &c, nil
}

func (r *CommentRepo) List(ctx context.Context) ([]model.Comment, error) {
	return r.query(ctx, "listing comments",
		`SELECT `+commentColumns+` FROM comments ORDER BY commenter, rowid`)
}

func (r *CommentRepo) ListByBlog(ctx context.Context, blogID uuid.UUID) ([]model.Comment, error) {
	return r.query(ctx, "listing comments by blog",
		`SELECT `+commentColumns+` FROM comments WHERE blog_id = ? ORDER BY rowid`,
		blogID,
	)
}

// Update overwrites the comment. The blog check only applies when blog_id
// changes, so comments under a deleted blog stay editable.
func (r *CommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE comments
		 SET body = ?, commenter = ?, blog_id = ?
		 WHERE id = ?
		   AND (blog_id = ? OR EXISTS (SELECT 1 FROM blogs WHERE id = ?))`,
		comment.Body, comment.Commenter, comment.BlogID,
		comment.ID, comment.BlogID, comment.BlogID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %s: %w", comment.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	found, err := exists(ctx, r.conn, "comments", comment.ID)
	if err != nil {
		return fmt.Errorf("sqlite: checking comment %s: %w", comment.ID, err)
	}
	if !found {
		return apperror.NotFound("comment", comment.ID.String())
	}
	return apperror.InvalidReference("blog_id", "blog", comment.BlogID.String())
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", id.String())
	}
	return nil
}

func (r *CommentRepo) query(ctx context.Context, op, query string, args ...any) ([]model.Comment, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Body, &c.Commenter, &c.BlogID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}
