// README: Order endpoint tests with an in-memory storage fake.
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/http/handlers"
	"swiftpost/internal/modules/order"
	"swiftpost/internal/modules/pricing"
	"swiftpost/internal/types"
)

// memStore is a minimal order.Storage for handler tests.
type memStore struct {
	mu     sync.Mutex
	orders map[types.ID]*order.Order
}

func newMemStore() *memStore {
	return &memStore{orders: map[types.ID]*order.Order{}}
}

func (m *memStore) Create(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id types.ID, from, to order.Status, version int, driverID *types.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from || o.StatusVersion != version {
		return false, nil
	}
	o.Status = to
	o.StatusVersion++
	if driverID != nil {
		d := *driverID
		o.DriverID = &d
	}
	return true, nil
}

func (m *memStore) SetCancelReason(_ context.Context, id types.ID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		o.CancelReason = &reason
	}
	return nil
}

func (m *memStore) AppendEvent(_ context.Context, _ *order.Event) error { return nil }

func (m *memStore) ListByDriver(_ context.Context, _ types.ID) ([]*order.Order, error) {
	return nil, nil
}

func (m *memStore) ListByStatus(_ context.Context, _ order.Status) ([]*order.Order, error) {
	return nil, nil
}

func buildOrderRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	pricingSvc := pricing.NewService(&stubConfigSource{cfg: pricing.DefaultConfig()})
	svc := order.NewService(newMemStore(), pricingSvc)
	r := gin.New()
	h := handlers.NewOrderHandler(svc)
	r.POST("/api/orders", h.Create)
	r.GET("/api/orders/:id", h.Get)
	r.POST("/api/orders/:id/cancel", h.Cancel)
	return r
}

func validOrderBody() map[string]any {
	return map[string]any{
		"client_id":       "client_1",
		"pickup_address":  "12 Wharf Rd, Melbourne VIC",
		"dropoff_address": "88 Collins St, Melbourne VIC",
		"quote": pricing.QuoteInput{
			Items:      []pricing.Item{{Type: pricing.ItemSmallBox, Quantity: 1, WeightPerUnitKg: 6}},
			DistanceKm: 20,
			Service:    pricing.ServiceStandard,
		},
	}
}

func TestOrderCreate_ReturnsServerSidePrice(t *testing.T) {
	r := buildOrderRouter()

	w := postJSON(r, "/api/orders", validOrderBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}

	var o order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.Status != order.StatusPending {
		t.Errorf("status = %s, want pending", o.Status)
	}
	if o.Pricing.Total != 78.65 {
		t.Errorf("total = %v, want 78.65", o.Pricing.Total)
	}
}

func TestOrderCreate_MissingAddresses(t *testing.T) {
	r := buildOrderRouter()

	body := validOrderBody()
	delete(body, "pickup_address")
	w := postJSON(r, "/api/orders", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
	}
}

func TestOrderCreate_QuoteRequiredBlocksSubmission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := pricing.DefaultConfig()
	cfg.Tiers[pricing.ServiceScheduled] = pricing.TierConfig{RequiresQuote: true}
	pricingSvc := pricing.NewService(&stubConfigSource{cfg: cfg})
	svc := order.NewService(newMemStore(), pricingSvc)
	r := gin.New()
	h := handlers.NewOrderHandler(svc)
	r.POST("/api/orders", h.Create)

	body := validOrderBody()
	body["quote"] = pricing.QuoteInput{
		Items:      []pricing.Item{{Type: pricing.ItemPallet, Quantity: 1, WeightPerUnitKg: 200}},
		DistanceKm: 40,
		Service:    pricing.ServiceScheduled,
	}
	w := postJSON(r, "/api/orders", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (%s)", w.Code, w.Body.String())
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	r := buildOrderRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%s)", w.Code, w.Body.String())
	}
}

func TestOrderCancel_FlowAndConflict(t *testing.T) {
	r := buildOrderRouter()

	w := postJSON(r, "/api/orders", validOrderBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d (%s)", w.Code, w.Body.String())
	}
	var o order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = postJSON(r, "/api/orders/"+string(o.ID)+"/cancel", map[string]any{"actor_type": "client"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("cancel: %d (%s)", w.Code, w.Body.String())
	}

	// cancelling twice must conflict with the terminal state
	w = postJSON(r, "/api/orders/"+string(o.ID)+"/cancel", map[string]any{"actor_type": "client"})
	if w.Code != http.StatusConflict {
		t.Fatalf("second cancel: %d, want 409 (%s)", w.Code, w.Body.String())
	}
}
