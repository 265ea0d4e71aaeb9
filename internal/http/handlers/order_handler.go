// README: Order handlers for create/get/cancel and lifecycle transitions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/modules/order"
	"swiftpost/internal/modules/pricing"
	"swiftpost/internal/types"
)

type OrderHandler struct {
	orders *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

type createOrderReq struct {
	ClientID       string             `json:"client_id"`
	PickupAddress  string             `json:"pickup_address"`
	DropoffAddress string             `json:"dropoff_address"`
	Quote          pricing.QuoteInput `json:"quote"`
	Notes          string             `json:"notes,omitempty"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.orders.Create(c.Request.Context(), order.CreateCommand{
		ClientID:       types.ID(req.ClientID),
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		Quote:          req.Quote,
		Notes:          req.Notes,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	o, err := h.orders.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

type driverActionReq struct {
	DriverID string `json:"driver_id"`
}

func (h *OrderHandler) Assign(c *gin.Context) {
	var req driverActionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driver_id required")
		return
	}
	err := h.orders.Assign(c.Request.Context(), order.AssignCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) Pickup(c *gin.Context) {
	var req driverActionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driver_id required")
		return
	}
	err := h.orders.Pickup(c.Request.Context(), order.PickupCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) Deliver(c *gin.Context) {
	var req driverActionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driver_id required")
		return
	}
	err := h.orders.Deliver(c.Request.Context(), order.DeliverCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) Release(c *gin.Context) {
	var req driverActionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driver_id required")
		return
	}
	err := h.orders.Release(c.Request.Context(), order.ReleaseCommand{
		OrderID:  types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type cancelReq struct {
	ActorType string `json:"actor_type"`
	Reason    string `json:"reason,omitempty"`
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req cancelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ActorType == "" {
		req.ActorType = "client"
	}
	err := h.orders.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID:   types.ID(c.Param("id")),
		ActorType: req.ActorType,
		Reason:    req.Reason,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
