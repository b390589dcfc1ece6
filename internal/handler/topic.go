package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/blog-api/internal/service"
)

// TopicHandler serves /topics. It only translates between HTTP and the
// topic service; all rules live in the service.
type TopicHandler struct {
	svc    *service.TopicService
	logger *slog.Logger
}

func NewTopicHandler(svc *service.TopicService, logger *slog.Logger) *TopicHandler {
	return &TopicHandler{svc: svc, logger: logger}
}

// HandleList handles GET /topics.
func (h *TopicHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponses(topics))
}

// HandleGet handles GET /topics/{id}.
func (h *TopicHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "topic")
	if err != nil {
		writeError(w, err)
		return
	}

	topic, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponse(topic))
}

// HandleCreate handles POST /topics.
func (h *TopicHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("invalid topic body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	topic, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTopicResponse(topic))
}

// HandleUpdate handles PUT /topics/{id}.
func (h *TopicHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// HandlePatch handles PATCH /topics/{id}.
func (h *TopicHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *TopicHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := pathID(chi.URLParam(r, "id"), "topic")
	if err != nil {
		writeError(w, err)
		return
	}

	var req topicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	topic, err := h.svc.Update(r.Context(), id, req.input(), partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponse(topic))
}

// HandleDelete handles DELETE /topics/{id}.
func (h *TopicHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "topic")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTop handles GET /topics/top.
func (h *TopicHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.Top(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponses(topics))
}

// HandleBlogs handles GET /topics/{id}/blogs.
func (h *TopicHandler) HandleBlogs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "topic")
	if err != nil {
		writeError(w, err)
		return
	}

	blogs, err := h.svc.Blogs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).blogResponses(blogs))
}
