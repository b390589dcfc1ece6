package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/blog-api/internal/service"
)

// CommentHandler serves /comments.
type CommentHandler struct {
	svc    *service.CommentService
	logger *slog.Logger
}

func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: logger}
}

func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).commentResponses(comments))
}

func (h *CommentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "comment")
	if err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).commentResponse(comment))
}

func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Debug("invalid comment body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	comment, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newLinker(r).commentResponse(comment))
}

func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *CommentHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *CommentHandler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := pathID(chi.URLParam(r, "id"), "comment")
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.svc.Update(r.Context(), id, req.input(), partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinker(r).commentResponse(comment))
}

func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"), "comment")
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
