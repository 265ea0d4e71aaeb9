// README: Fleet domain types: driver status, live positions, snapshots.
package fleet

import (
	"time"

	"swiftpost/internal/types"
)

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

// DriverLocation is one driver's last known position. DistanceKm is
// filled in relative to a query point by Nearest.
type DriverLocation struct {
	DriverID   types.ID     `json:"driver_id"`
	Status     DriverStatus `json:"status"`
	Position   types.Point  `json:"position"`
	DistanceKm float64      `json:"distance_km,omitempty"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Snapshot is the Postgres record kept for audit/replay; the live
// position lives in Redis only.
type Snapshot struct {
	ID         int64
	DriverID   types.ID
	Status     DriverStatus
	Position   types.Point
	RecordedAt time.Time
}
