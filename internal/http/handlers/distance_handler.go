// README: Distance lookup handler; UI falls back to manual entry on error.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/maps"
)

// DistanceLookup is implemented by *maps.DistanceService.
type DistanceLookup interface {
	DrivingDistance(ctx context.Context, origin, destination string) (maps.Estimate, error)
}

type DistanceHandler struct {
	lookup DistanceLookup
}

func NewDistanceHandler(lookup DistanceLookup) *DistanceHandler {
	return &DistanceHandler{lookup: lookup}
}

type distanceReq struct {
	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
}

// Estimate proxies the driving-distance lookup. A 502 tells the form to
// switch to manual distance entry; pricing itself never calls this.
func (h *DistanceHandler) Estimate(c *gin.Context) {
	var req distanceReq
	if err := c.ShouldBindJSON(&req); err != nil || req.PickupAddress == "" || req.DropoffAddress == "" {
		writeError(c, http.StatusBadRequest, "pickup_address and dropoff_address required")
		return
	}
	est, err := h.lookup.DrivingDistance(c.Request.Context(), req.PickupAddress, req.DropoffAddress)
	if err != nil {
		writeError(c, http.StatusBadGateway, "distance lookup unavailable")
		return
	}
	writeJSON(c, http.StatusOK, est)
}
