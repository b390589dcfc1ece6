package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

func TestCommentCreate(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")

	comment := createTestComment(t, db, blog, "grace")
	if comment.ID == uuid.Nil {
		t.Fatal("Create() did not set comment.ID")
	}

	found, err := db.Comments().GetByID(context.Background(), comment.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Commenter != "grace" || found.Body != "nice post" || found.BlogID != blog.ID {
		t.Errorf("GetByID() = %+v, fields do not match", found)
	}
}

func TestCommentCreate_UnknownBlog(t *testing.T) {
	db := newTestDB(t)

	err := db.Comments().Create(context.Background(),
		&model.Comment{Body: "b", Commenter: "c", BlogID: uuid.New()})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) || appErr.Field != "blog_id" {
		t.Errorf("Create() error = %v, want blog_id validation error", err)
	}
}

func TestCommentList_OrderedByCommenter(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")
	createTestComment(t, db, blog, "zoe")
	createTestComment(t, db, blog, "adam")

	comments, err := db.Comments().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(comments) != 2 || comments[0].Commenter != "adam" || comments[1].Commenter != "zoe" {
		t.Errorf("List() = %+v, want adam then zoe", comments)
	}
}

func TestCommentListByBlog(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")
	other := createTestBlog(t, db, topic, "other")

	first := createTestComment(t, db, blog, "zoe")
	createTestComment(t, db, other, "bob")
	second := createTestComment(t, db, blog, "adam")

	comments, err := db.Comments().ListByBlog(context.Background(), blog.ID)
	if err != nil {
		t.Fatalf("ListByBlog() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ListByBlog() returned %d comments, want 2", len(comments))
	}
	// Storage order, not commenter order.
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Errorf("ListByBlog() order = [%s %s], want insertion order", comments[0].Commenter, comments[1].Commenter)
	}
}

func TestCommentUpdate(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")
	comment := createTestComment(t, db, blog, "grace")

	comment.Body = "edited"
	if err := db.Comments().Update(context.Background(), comment); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Comments().GetByID(context.Background(), comment.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Body != "edited" {
		t.Errorf("Body = %q, want %q", found.Body, "edited")
	}
}

func TestCommentUpdate_Errors(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")
	comment := createTestComment(t, db, blog, "grace")

	missing := &model.Comment{ID: uuid.New(), Body: "b", Commenter: "c", BlogID: blog.ID}
	if err := db.Comments().Update(context.Background(), missing); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() unknown comment error = %v, want ErrNotFound", err)
	}

	comment.BlogID = uuid.New()
	if err := db.Comments().Update(context.Background(), comment); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update() unknown blog error = %v, want ErrValidation", err)
	}
}

func TestCommentUpdate_DanglingBlogKept(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")
	comment := createTestComment(t, db, blog, "grace")

	if err := db.Blogs().Delete(context.Background(), blog.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	comment.Body = "edited"
	if err := db.Comments().Update(context.Background(), comment); err != nil {
		t.Fatalf("Update() with unchanged dangling blog error = %v, want nil", err)
	}

	found, err := db.Comments().GetByID(context.Background(), comment.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Body != "edited" || found.BlogID != blog.ID {
		t.Errorf("GetByID() = %+v", found)
	}
}

func TestCommentDelete(t *testing.T) {
	db := newTestDB(t)
	topic := createTestTopic(t, db, "go")
	blog := createTestBlog(t, db, topic, "post")
	comment := createTestComment(t, db, blog, "grace")

	if err := db.Comments().Delete(context.Background(), comment.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Comments().GetByID(context.Background(), comment.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.Comments().Delete(context.Background(), comment.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
