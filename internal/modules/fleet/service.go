// README: Fleet service: driver location updates and nearest-driver queries.
package fleet

import (
	"context"
	"errors"
	"time"

	"swiftpost/internal/types"
)

var ErrBadUpdate = errors.New("fleet: invalid location update")

// Storage is the persistence contract; *Store is the Redis/Postgres
// implementation, tests use a fake.
type Storage interface {
	SetPosition(ctx context.Context, driverID types.ID, pos types.Point, status DriverStatus) error
	SearchNearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]DriverLocation, error)
	AppendSnapshot(ctx context.Context, snap Snapshot) error
}

type Service struct {
	store Storage
}

func NewService(store Storage) *Service {
	return &Service{store: store}
}

type Update struct {
	DriverID types.ID
	Position types.Point
	Status   DriverStatus
}

// Update writes the live position and a snapshot row. Snapshot failures
// are returned; the live write has already happened at that point, which
// is acceptable since snapshots are an audit trail, not dispatch state.
func (s *Service) Update(ctx context.Context, u Update) error {
	if u.DriverID == "" {
		return ErrBadUpdate
	}
	if u.Position.Lat < -90 || u.Position.Lat > 90 || u.Position.Lng < -180 || u.Position.Lng > 180 {
		return ErrBadUpdate
	}
	switch u.Status {
	case DriverAvailable, DriverBusy, DriverOffline:
	default:
		return ErrBadUpdate
	}

	if err := s.store.SetPosition(ctx, u.DriverID, u.Position, u.Status); err != nil {
		return err
	}
	return s.store.AppendSnapshot(ctx, Snapshot{
		DriverID:   u.DriverID,
		Status:     u.Status,
		Position:   u.Position,
		RecordedAt: time.Now(),
	})
}

// Nearest returns available drivers around a pickup point, closest
// first. Distances are recomputed with haversine so the ordering does
// not depend on the backing store returning them sorted.
func (s *Service) Nearest(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]DriverLocation, error) {
	locs, err := s.store.SearchNearby(ctx, center, radiusKm, limit)
	if err != nil {
		return nil, err
	}

	available := locs[:0]
	for _, l := range locs {
		if l.Status != DriverAvailable {
			continue
		}
		l.DistanceKm = haversineKm(center.Lat, center.Lng, l.Position.Lat, l.Position.Lng)
		available = append(available, l)
	}
	sortByDistance(available, func(d DriverLocation) float64 { return d.DistanceKm })
	return available, nil
}
