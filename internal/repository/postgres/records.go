package postgres

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sakif/blog-api/internal/model"
)

// The record structs are the GORM view of the three tables. They carry no
// association fields, so GORM never creates or follows constraints.

type topicRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(64);not null;index"`
}

func (topicRecord) TableName() string { return "topics" }

type blogRecord struct {
	ID      uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name    string                      `gorm:"type:varchar(256);not null;index"`
	Body    string                      `gorm:"type:text;not null"`
	Author  string                      `gorm:"type:varchar(128);not null"`
	Tags    datatypes.JSONSlice[string] `gorm:"not null"`
	TopicID uuid.UUID                   `gorm:"type:uuid;not null;index"`
}

func (blogRecord) TableName() string { return "blogs" }

type commentRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Body      string    `gorm:"type:text;not null"`
	Commenter string    `gorm:"type:varchar(128);not null"`
	BlogID    uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (commentRecord) TableName() string { return "comments" }

// topicRow is the result shape of the topic queries, which add the
// computed blog count.
type topicRow struct {
	ID        uuid.UUID
	Name      string
	BlogCount int64
}

func (r topicRow) toModel() model.Topic {
	return model.Topic{ID: r.ID, Name: r.Name, BlogCount: int(r.BlogCount)}
}

func newBlogRecord(b *model.Blog) blogRecord {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return blogRecord{
		ID:      b.ID,
		Name:    b.Name,
		Body:    b.Body,
		Author:  b.Author,
		Tags:    datatypes.NewJSONSlice(tags),
		TopicID: b.TopicID,
	}
}

func (r blogRecord) toModel() model.Blog {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return model.Blog{
		ID:      r.ID,
		Name:    r.Name,
		Body:    r.Body,
		Author:  r.Author,
		Tags:    tags,
		TopicID: r.TopicID,
	}
}

func newCommentRecord(c *model.Comment) commentRecord {
	return commentRecord{
		ID:        c.ID,
		Body:      c.Body,
		Commenter: c.Commenter,
		BlogID:    c.BlogID,
	}
}

func (r commentRecord) toModel() model.Comment {
	return model.Comment{
		ID:        r.ID,
		Body:      r.Body,
		Commenter: r.Commenter,
		BlogID:    r.BlogID,
	}
}
