package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// dsnEnv names a disposable PostgreSQL database. The integration tests drop
// and recreate the three tables, so never point it at real data.
const dsnEnv = "BLOGAPI_TEST_POSTGRES_DSN"

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping PostgreSQL integration test", dsnEnv)
	}

	db, err := New(Config{DSN: dsn, MaxOpen: 4, MaxIdle: 2}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.gorm.Migrator().DropTable(&commentRecord{}, &blogRecord{}, &topicRecord{}))
	require.NoError(t, db.gorm.AutoMigrate(&topicRecord{}, &blogRecord{}, &commentRecord{}))
	return db
}

func TestBlogRecord_Conversion(t *testing.T) {
	blog := &model.Blog{
		ID:      uuid.New(),
		Name:    "n",
		Body:    "b",
		Author:  "a",
		TopicID: uuid.New(),
	}

	rec := newBlogRecord(blog)
	assert.NotNil(t, []string(rec.Tags), "nil tags must be stored as an empty array")

	back := rec.toModel()
	assert.Equal(t, blog.ID, back.ID)
	assert.Equal(t, blog.TopicID, back.TopicID)
	assert.Equal(t, []string{}, back.Tags)
}

func TestTopicRow_Conversion(t *testing.T) {
	id := uuid.New()
	topic := topicRow{ID: id, Name: "go", BlogCount: 4}.toModel()

	assert.Equal(t, model.Topic{ID: id, Name: "go", BlogCount: 4}, topic)
}

func TestIntegration_PoolLimits(t *testing.T) {
	db := newTestDB(t)

	sqlDB, err := db.gorm.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestIntegration_TopicsAndBlogs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	topic := &model.Topic{Name: "go"}
	require.NoError(t, db.Topics().Create(ctx, topic))

	for _, name := range []string{"b", "a"} {
		blog := &model.Blog{Name: name, Body: "x", Author: "y", Tags: []string{"t"}, TopicID: topic.ID}
		require.NoError(t, db.Blogs().Create(ctx, blog))
	}

	found, err := db.Topics().GetByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.BlogCount)

	blogs, err := db.Blogs().ListByTopic(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, "a", blogs[0].Name)
	assert.Equal(t, []string{"t"}, blogs[0].Tags)

	orphan := &model.Blog{Name: "o", Body: "x", Author: "y", TopicID: uuid.New()}
	err = db.Blogs().Create(ctx, orphan)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Non-cascading delete: the blogs stay behind.
	require.NoError(t, db.Topics().Delete(ctx, topic.ID))
	all, err := db.Blogs().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// A blog under the deleted topic stays editable while topic_id is kept.
	dangling := all[0]
	dangling.Name = "renamed"
	require.NoError(t, db.Blogs().Update(ctx, &dangling))

	dangling.TopicID = uuid.New()
	assert.ErrorIs(t, db.Blogs().Update(ctx, &dangling), apperror.ErrValidation)
}

func TestIntegration_Comments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	topic := &model.Topic{Name: "go"}
	require.NoError(t, db.Topics().Create(ctx, topic))
	blog := &model.Blog{Name: "p", Body: "x", Author: "y", TopicID: topic.ID}
	require.NoError(t, db.Blogs().Create(ctx, blog))

	comment := &model.Comment{Body: "hi", Commenter: "zoe", BlogID: blog.ID}
	require.NoError(t, db.Comments().Create(ctx, comment))

	require.NoError(t, db.Blogs().Delete(ctx, blog.ID))
	comment.Body = "edited"
	require.NoError(t, db.Comments().Update(ctx, comment), "unchanged dangling blog_id is accepted")

	comment.BlogID = uuid.New()
	assert.ErrorIs(t, db.Comments().Update(ctx, comment), apperror.ErrValidation)
	comment.BlogID = blog.ID

	_, err := db.Comments().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	comments, err := db.Comments().ListByBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}
