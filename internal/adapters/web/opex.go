package web

import (
	"net/http"

	"planboard/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listOpex(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	res, err := h.svc.ListOpexItems(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) createOpex(w http.ResponseWriter, r *http.Request) {
	var in core.OpexInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.CreateOpexItem(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res)
}

func (h *Handler) updateOpex(w http.ResponseWriter, r *http.Request) {
	var in core.OpexInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.UpdateOpexItem(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) deleteOpex(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOpexItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
