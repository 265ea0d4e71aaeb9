// README: Driver portal handlers: location updates, job listing.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/modules/fleet"
	"swiftpost/internal/modules/order"
	"swiftpost/internal/types"
)

type DriverHandler struct {
	fleet  *fleet.Service
	orders *order.Service
}

func NewDriverHandler(fleetSvc *fleet.Service, orderSvc *order.Service) *DriverHandler {
	return &DriverHandler{fleet: fleetSvc, orders: orderSvc}
}

type locationUpdateReq struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Status string  `json:"status"`
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req locationUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	err := h.fleet.Update(c.Request.Context(), fleet.Update{
		DriverID: types.ID(c.Param("id")),
		Position: types.Point{Lat: req.Lat, Lng: req.Lng},
		Status:   fleet.DriverStatus(req.Status),
	})
	if err == fleet.ErrBadUpdate {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update location")
		return
	}
	c.Status(http.StatusNoContent)
}

// Nearby returns available drivers around a point, closest first. The
// dispatch screen uses it to pick a driver before calling assign.
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(c, http.StatusBadRequest, "lat and lng required")
		return
	}

	radiusKm := 10.0
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			writeError(c, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
		radiusKm = r
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	drivers, err := h.fleet.Nearest(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radiusKm, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to search drivers")
		return
	}
	writeJSON(c, http.StatusOK, drivers)
}

// ListJobs returns the driver's active orders and the open pool.
func (h *DriverHandler) ListJobs(c *gin.Context) {
	jobs, err := h.orders.ListJobs(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	writeJSON(c, http.StatusOK, jobs)
}
