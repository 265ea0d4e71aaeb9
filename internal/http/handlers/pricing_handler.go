// README: Admin pricing configuration handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/modules/pricing"
)

// PricingSettings is the admin-facing settings contract. Implemented by
// *pricing.Store.
type PricingSettings interface {
	Config(ctx context.Context) (pricing.Config, error)
	Update(ctx context.Context, patch pricing.ConfigPatch) (pricing.Config, error)
}

type PricingHandler struct {
	settings PricingSettings
}

func NewPricingHandler(settings PricingSettings) *PricingHandler {
	return &PricingHandler{settings: settings}
}

func (h *PricingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.settings.Config(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to load pricing config")
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}

func (h *PricingHandler) UpdateConfig(c *gin.Context) {
	var patch pricing.ConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := h.settings.Update(c.Request.Context(), patch)
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cfg)
}
