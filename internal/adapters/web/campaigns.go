package web

import (
	"net/http"

	"planboard/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listCampaigns(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListCampaigns(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) getCampaign(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) currentCampaign(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CurrentCampaign(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) createCampaign(w http.ResponseWriter, r *http.Request) {
	var in core.CampaignInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.CreateCampaign(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, res)
}

func (h *Handler) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var in core.CampaignInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) campaignForecast(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetCampaignForecast(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) putQuantities(w http.ResponseWriter, r *http.Request) {
	var q core.Quantities
	if !decodeJSON(w, r, &q) {
		return
	}
	if err := h.svc.SetQuantities(r.Context(), chi.URLParam(r, "id"), q); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putMonthWeights(w http.ResponseWriter, r *http.Request) {
	var weights core.MonthWeights
	if !decodeJSON(w, r, &weights) {
		return
	}
	if err := h.svc.SetMonthWeights(r.Context(), chi.URLParam(r, "id"), weights); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putProductMonthWeights(w http.ResponseWriter, r *http.Request) {
	var weights core.ProductMonthWeights
	if !decodeJSON(w, r, &weights) {
		return
	}
	if err := h.svc.SetProductMonthWeights(r.Context(), chi.URLParam(r, "id"), weights); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putSizeBreakdown(w http.ResponseWriter, r *http.Request) {
	var breakdown core.SizeBreakdown
	if !decodeJSON(w, r, &breakdown) {
		return
	}
	if err := h.svc.SetSizeBreakdown(r.Context(), chi.URLParam(r, "id"), breakdown); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putOpexLinks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OpexIDs []string `json:"opex_ids"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.SetCampaignOpexLinks(r.Context(), chi.URLParam(r, "id"), body.OpexIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
