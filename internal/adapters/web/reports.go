package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) exportProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ExportProductMaster(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveWorkbook(w, res)
}

func (h *Handler) exportOpex(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ExportOpexMaster(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveWorkbook(w, res)
}

func (h *Handler) exportCampaign(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ExportCampaignWorkbook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveWorkbook(w, res)
}

func (h *Handler) exportScenario(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ExportScenarioComparison(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	serveWorkbook(w, res)
}
