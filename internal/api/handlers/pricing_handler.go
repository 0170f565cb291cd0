package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
	"github.com/pricegrid/dynamic-pricing-service/internal/service"
)

// --- Request / Response DTOs ---

type CalculatePriceRequest struct {
	ProductID    string  `json:"product_id"`
	BasePrice    float64 `json:"base_price"`
	Quantity     int     `json:"quantity,omitempty"`
	CustomerTier string  `json:"customer_tier,omitempty"`
	CategoryID   string  `json:"category_id,omitempty"`
	CurrentStock *int    `json:"current_stock,omitempty"`
	UserID       string  `json:"user_id,omitempty"`
}

type BulkPriceRequest struct {
	ProductID    string  `json:"product_id"`
	BasePrice    float64 `json:"base_price"`
	Quantity     int     `json:"quantity"`
	CustomerTier string  `json:"customer_tier,omitempty"`
}

type BulkPriceResponse struct {
	BulkPricing *models.BulkDiscount `json:"bulk_pricing"`
}

type PricingHandler struct {
	svc *service.PricingService
}

func NewPricingHandler(svc *service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// CalculatePrice handles POST /pricing/calculate
func (h *PricingHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	var req CalculatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}
	if req.BasePrice < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "base_price must be non-negative"})
		return
	}

	result, err := h.svc.CalculatePrice(r.Context(), req.ProductID, req.BasePrice, models.PricingContext{
		Quantity:     req.Quantity,
		CustomerTier: req.CustomerTier,
		CategoryID:   req.CategoryID,
		CurrentStock: req.CurrentStock,
		UserID:       req.UserID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CalculateBulkPrice handles POST /pricing/bulk. A response with a null
// bulk_pricing field means no tier matched; that is not an error.
func (h *PricingHandler) CalculateBulkPrice(w http.ResponseWriter, r *http.Request) {
	var req BulkPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id required"})
		return
	}
	if req.BasePrice < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "base_price must be non-negative"})
		return
	}

	bulk, err := h.svc.CalculateBulkPrice(r.Context(), req.ProductID, req.BasePrice, req.Quantity, req.CustomerTier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BulkPriceResponse{BulkPricing: bulk})
}
