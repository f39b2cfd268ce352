package handler

import (
	"net/http"

	"bookstore/internal/model"
	"bookstore/internal/service"

	"github.com/rs/zerolog"
)

// PromotionHandler handles promotion code HTTP requests.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("handler", "promotion").Logger(),
	}
}

// Validate handles POST /api/promotions/validate requests. A rejected code is
// still a 200; the result says why.
func (h *PromotionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidatePromotionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	result, err := h.service.Validate(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		writeServiceError(w, r, err, "failed to validate promotion code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
