package handler

// TRANSFER REPRESENTATION:
// Reads expose parents as absolute hyperlinks ("topic", "blog"); writes take
// the raw parent id ("topic_id", "blog_id"). The request structs use
// pointer fields so a handler can tell "omitted" from "empty", which is
// what separates PATCH from PUT.

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/service"
)

type TopicResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BlogCount int    `json:"blog_count"`
}

type BlogResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Body   string   `json:"body"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
	Topic  string   `json:"topic"` // link to the parent topic
}

type CommentResponse struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	Commenter string `json:"commenter"`
	Blog      string `json:"blog"` // link to the parent blog
}

type topicRequest struct {
	Name *string `json:"name"`
}

func (req topicRequest) input() service.TopicInput {
	return service.TopicInput{Name: req.Name}
}

type blogRequest struct {
	Name    *string   `json:"name"`
	Body    *string   `json:"body"`
	Author  *string   `json:"author"`
	Tags    *[]string `json:"tags"`
	TopicID *string   `json:"topic_id"`
}

func (req blogRequest) input() service.BlogInput {
	return service.BlogInput{
		Name:    req.Name,
		Body:    req.Body,
		Author:  req.Author,
		Tags:    req.Tags,
		TopicID: req.TopicID,
	}
}

type commentRequest struct {
	Body      *string `json:"body"`
	Commenter *string `json:"commenter"`
	BlogID    *string `json:"blog_id"`
}

func (req commentRequest) input() service.CommentInput {
	return service.CommentInput{
		Body:      req.Body,
		Commenter: req.Commenter,
		BlogID:    req.BlogID,
	}
}

// linker builds absolute resource URLs for one request.
type linker struct {
	base string
}

// newLinker derives scheme and host from the request. X-Forwarded-Proto
// wins over the connection's own TLS state when a proxy terminates TLS.
func newLinker(r *http.Request) linker {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return linker{base: scheme + "://" + r.Host}
}

func (l linker) collection(name string) string { return l.base + "/" + name }
func (l linker) topic(id uuid.UUID) string { return l.base + "/topics/" + id.String() }
func (l linker) blog(id uuid.UUID) string  { return l.base + "/blogs/" + id.String() }

func newTopicResponse(t *model.Topic) TopicResponse {
	return TopicResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		BlogCount: t.BlogCount,
	}
}

func newTopicResponses(topics []model.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for i := range topics {
		out = append(out, newTopicResponse(&topics[i]))
	}
	return out
}

func (l linker) blogResponse(b *model.Blog) BlogResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BlogResponse{
		ID:     b.ID.String(),
		Name:   b.Name,
		Body:   b.Body,
		Author: b.Author,
		Tags:   tags,
		Topic:  l.topic(b.TopicID),
	}
}

func (l linker) blogResponses(blogs []model.Blog) []BlogResponse {
	out := make([]BlogResponse, 0, len(blogs))
	for i := range blogs {
		out = append(out, l.blogResponse(&blogs[i]))
	}
	return out
}

func (l linker) commentResponse(c *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		Body:      c.Body,
		Commenter: c.Commenter,
		Blog:      l.blog(c.BlogID),
	}
}

func (l linker) commentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, l.commentResponse(&comments[i]))
	}
	return out
}
