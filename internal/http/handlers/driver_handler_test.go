// README: Driver endpoint tests with an in-memory fleet store.
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/http/handlers"
	"swiftpost/internal/modules/fleet"
	"swiftpost/internal/types"
)

// stubFleetStore is a minimal fleet.Storage with canned search results.
type stubFleetStore struct {
	nearby []fleet.DriverLocation
}

func (s *stubFleetStore) SetPosition(_ context.Context, _ types.ID, _ types.Point, _ fleet.DriverStatus) error {
	return nil
}

func (s *stubFleetStore) SearchNearby(_ context.Context, _ types.Point, _ float64, _ int) ([]fleet.DriverLocation, error) {
	return s.nearby, nil
}

func (s *stubFleetStore) AppendSnapshot(_ context.Context, _ fleet.Snapshot) error {
	return nil
}

func buildDriverRouter(store *stubFleetStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := fleet.NewService(store)
	r := gin.New()
	h := handlers.NewDriverHandler(svc, nil)
	r.GET("/api/admin/drivers/nearby", h.Nearby)
	return r
}

func TestDriversNearby_FiltersAndSorts(t *testing.T) {
	seen := time.Now()
	store := &stubFleetStore{nearby: []fleet.DriverLocation{
		{DriverID: "far", Status: fleet.DriverAvailable, Position: types.Point{Lat: -37.90, Lng: 145.10}, UpdatedAt: seen},
		{DriverID: "busy", Status: fleet.DriverBusy, Position: types.Point{Lat: -37.8137, Lng: 144.9632}, UpdatedAt: seen},
		{DriverID: "near", Status: fleet.DriverAvailable, Position: types.Point{Lat: -37.8150, Lng: 144.9650}, UpdatedAt: seen},
	}}
	r := buildDriverRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/drivers/nearby?lat=-37.8136&lng=144.9631&radius_km=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}

	var got []fleet.DriverLocation
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected busy driver filtered out, got %d results", len(got))
	}
	if got[0].DriverID != "near" || got[1].DriverID != "far" {
		t.Errorf("unexpected order: %s, %s", got[0].DriverID, got[1].DriverID)
	}
	if got[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt missing from response")
	}
}

func TestDriversNearby_RequiresCoordinates(t *testing.T) {
	r := buildDriverRouter(&stubFleetStore{})

	for _, path := range []string{
		"/api/admin/drivers/nearby",
		"/api/admin/drivers/nearby?lat=-37.8",
		"/api/admin/drivers/nearby?lat=-37.8&lng=144.9&radius_km=-5",
		"/api/admin/drivers/nearby?lat=-37.8&lng=144.9&limit=0",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}
