package web

import "net/http"

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) putDisplayCurrency(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Currency string `json:"currency"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.SetDisplayCurrency(r.Context(), body.Currency); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) putFxRate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Currency string `json:"currency"`
		Rate     string `json:"rate"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.UpsertFxRate(r.Context(), body.Currency, body.Rate); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
