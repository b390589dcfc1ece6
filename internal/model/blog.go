package model

import "github.com/google/uuid"

// Blog is a post belonging to one Topic.
//
// TopicID must name an existing topic when the blog is written. Deleting
// the topic afterwards leaves TopicID dangling.
type Blog struct {
	ID      uuid.UUID
	Name    string
	Body    string
	Author  string
	Tags    []string
	TopicID uuid.UUID
}
