package web

import "net/http"

// advisorDraft runs the advisor over a natural-language what-if request and
// returns the structured draft. Nothing is persisted here; the client saves
// the overrides separately once the user confirms.
func (h *Handler) advisorDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Text == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	res, err := h.svc.DraftScenario(r.Context(), body.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}
