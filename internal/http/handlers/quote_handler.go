// README: Quote handler: live price preview for the order forms.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/modules/pricing"
)

// QuoteService prices a consignment. Implemented by *pricing.Service.
type QuoteService interface {
	Quote(ctx context.Context, in pricing.QuoteInput) (pricing.Breakdown, error)
}

type QuoteHandler struct {
	pricing QuoteService
}

func NewQuoteHandler(svc QuoteService) *QuoteHandler {
	return &QuoteHandler{pricing: svc}
}

// Preview recomputes the breakdown on every form edit. Zero distance or
// weight mid-edit is fine and returns a (near-)zero breakdown; only
// negative values are rejected.
func (h *QuoteHandler) Preview(c *gin.Context) {
	var in pricing.QuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.pricing.Quote(c.Request.Context(), in)
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}
