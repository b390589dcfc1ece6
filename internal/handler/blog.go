package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/blog-api/internal/service"
)

// BlogHandler serves /blogs.
type BlogHandler struct {
	svc    *service.BlogService
	logger *slog.Logger
}

func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{svc: svc, logger: logger}
}

func (h *BlogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).blogResponses(blogs))
}

func (h *BlogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "blog")
	if err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).blogResponse(blog))
}

func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("invalid blog body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	blog, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newLinker(r).blogResponse(blog))
}

func (h *BlogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *BlogHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *BlogHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := pathID(chi.URLParam(r, "id"), "blog")
	if err != nil {
		writeError(w, err)
		return
	}

	var req blogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	blog, err := h.svc.Update(r.Context(), id, req.input(), partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).blogResponse(blog))
}

func (h *BlogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "blog")
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

// HandleComments handles GET /blogs/{id}/comments.
func (h *BlogHandler) HandleComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "blog")
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.svc.Comments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).commentResponses(comments))
}
