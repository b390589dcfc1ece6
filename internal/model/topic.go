// Package model defines the records persisted by the storage layer.
//
// The structs carry no JSON tags: the wire shapes live in the handler
// package, because the read and write representations differ (computed
// blog_count, hyperlinked parents, write-only *_id fields).
package model

import "github.com/google/uuid"

// Max lengths, counted in characters.
const (
	MaxTopicNameLength = 64
	MaxBlogNameLength  = 256
	MaxAuthorLength    = 128
	MaxCommenterLength = 128
)

// Topic is a named category grouping blogs.
//
// BlogCount is derived: the number of blogs whose TopicID is this topic.
// It is never stored. Repositories fill it in on every read and ignore it
// on writes.
type Topic struct {
	ID        uuid.UUID
	Name      string
	BlogCount int
}
