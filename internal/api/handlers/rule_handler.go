package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pricegrid/dynamic-pricing-service/internal/models"
	"github.com/pricegrid/dynamic-pricing-service/internal/service"
)

type RuleHandler struct {
	admin *service.RuleAdminService
}

func NewRuleHandler(admin *service.RuleAdminService) *RuleHandler {
	return &RuleHandler{admin: admin}
}

// CreateRule handles POST /admin/rules
func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var spec service.RuleSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	createdBy := r.Header.Get("X-Admin-User")
	rule, err := h.admin.CreateRule(r.Context(), spec, createdBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// UpdateRule handles PATCH /admin/rules/{ruleID}
func (h *RuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ruleID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule id"})
		return
	}

	var patch service.RulePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	rule, err := h.admin.UpdateRule(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// DeleteRule handles DELETE /admin/rules/{ruleID}
func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ruleID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule id"})
		return
	}

	if err := h.admin.DeleteRule(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRules handles GET /admin/rules with optional target_type, target_id,
// rule_type and active filters.
func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.RuleFilter{
		TargetType: models.TargetType(q.Get("target_type")),
		TargetID:   q.Get("target_id"),
		RuleType:   models.RuleType(q.Get("rule_type")),
		ActiveOnly: q.Get("active") == "true",
	}

	rules, err := h.admin.ListRules(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if rules == nil {
		rules = []models.PricingRule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}
