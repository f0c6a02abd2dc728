package web

import (
	"net/http"

	"planboard/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Products ──────────────────────────────────────────────────────────────
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})

	// ── Campaigns ─────────────────────────────────────────────────────────────
	r.Route("/api/campaigns", func(r chi.Router) {
		r.Get("/", h.listCampaigns)
		r.Post("/", h.createCampaign)
		r.Get("/current", h.currentCampaign)
		r.Get("/{id}", h.getCampaign)
		r.Put("/{id}", h.updateCampaign)
		r.Get("/{id}/forecast", h.campaignForecast)
		r.Put("/{id}/quantities", h.putQuantities)
		r.Put("/{id}/month-weights", h.putMonthWeights)
		r.Put("/{id}/product-month-weights", h.putProductMonthWeights)
		r.Put("/{id}/size-breakdown", h.putSizeBreakdown)
		r.Put("/{id}/opex-links", h.putOpexLinks)
	})

	// ── Opex ──────────────────────────────────────────────────────────────────
	r.Route("/api/opex", func(r chi.Router) {
		r.Get("/", h.listOpex)
		r.Post("/", h.createOpex)
		r.Put("/{id}", h.updateOpex)
		r.Delete("/{id}", h.deleteOpex)
	})

	// ── Scenarios ─────────────────────────────────────────────────────────────
	r.Route("/api/scenarios", func(r chi.Router) {
		r.Get("/", h.listScenarios)
		r.Post("/", h.createScenario)
		r.Put("/{id}", h.updateScenario)
		r.Delete("/{id}", h.deleteScenario)
		r.Post("/{id}/duplicate", h.duplicateScenario)
		r.Post("/{id}/forecast", h.scenarioForecast)
		r.Put("/{id}/product-overrides", h.putProductOverrides)
		r.Put("/{id}/opex-overrides", h.putOpexOverrides)
		r.Put("/{id}/fx-overrides", h.putFxOverrides)
	})

	// ── Advisor ───────────────────────────────────────────────────────────────
	r.Post("/api/advisor/draft", h.advisorDraft)

	// ── Settings ──────────────────────────────────────────────────────────────
	r.Get("/api/settings", h.getSettings)
	r.Put("/api/settings/currency", h.putDisplayCurrency)
	r.Put("/api/settings/fx-rates", h.putFxRate)

	// ── Reports (xlsx attachments) ────────────────────────────────────────────
	r.Get("/api/reports/products", h.exportProducts)
	r.Get("/api/reports/opex", h.exportOpex)
	r.Get("/api/reports/campaigns/{id}", h.exportCampaign)
	r.Get("/api/reports/scenarios/{id}", h.exportScenario)

	h.router = r
	return h
}

// ServeHTTP delegates to the underlying chi router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// serveWorkbook writes an xlsx export as a download attachment.
func serveWorkbook(w http.ResponseWriter, res *app.ExportResult) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	_, _ = w.Write(res.Data)
}
