package model

import "github.com/google/uuid"

// Comment is a remark attached to one Blog. Like Blog.TopicID, BlogID is
// checked at write time only.
type Comment struct {
	ID        uuid.UUID
	Body      string
	Commenter string
	BlogID    uuid.UUID
}
