package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pricegrid/dynamic-pricing-service/internal/api/handlers"
	"github.com/pricegrid/dynamic-pricing-service/internal/api/middleware"
	"github.com/pricegrid/dynamic-pricing-service/internal/service"
)

// NewRouter builds the HTTP router for the pricing service.
func NewRouter(pricing *service.PricingService, admin *service.RuleAdminService, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics)

	pricingHandler := handlers.NewPricingHandler(pricing)
	ruleHandler := handlers.NewRuleHandler(admin)

	// Public pricing endpoints
	r.Route("/pricing", func(r chi.Router) {
		r.Post("/calculate", pricingHandler.CalculatePrice)
		r.Post("/bulk", pricingHandler.CalculateBulkPrice)
	})

	// Admin endpoints
	r.Route("/admin/rules", func(r chi.Router) {
		r.Get("/", ruleHandler.ListRules)
		r.Post("/", ruleHandler.CreateRule)
		r.Patch("/{ruleID}", ruleHandler.UpdateRule)
		r.Delete("/{ruleID}", ruleHandler.DeleteRule)
	})

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
