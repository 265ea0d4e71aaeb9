// README: Fleet store: live positions in Redis GEO, snapshots in Postgres.
package fleet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"swiftpost/internal/types"
)

const (
	geoKey       = "fleet:drivers:geo"
	statusPrefix = "fleet:drivers:status:"
	statusTTL    = 10 * time.Minute
)

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

// driverState is the value stored under the status key; the GEO set
// only holds coordinates.
type driverState struct {
	Status    DriverStatus `json:"status"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// SetPosition writes the live position and status. Status entries expire
// so a crashed driver app drops out of dispatch automatically.
func (s *Store) SetPosition(ctx context.Context, driverID types.ID, pos types.Point, status DriverStatus) error {
	if status == DriverOffline {
		if err := s.redis.ZRem(ctx, geoKey, string(driverID)).Err(); err != nil {
			return err
		}
		return s.redis.Del(ctx, statusPrefix+string(driverID)).Err()
	}
	if err := s.redis.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Latitude:  pos.Lat,
		Longitude: pos.Lng,
	}).Err(); err != nil {
		return err
	}
	state, err := json.Marshal(driverState{Status: status, UpdatedAt: time.Now()})
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, statusPrefix+string(driverID), state, statusTTL).Err()
}

// SearchNearby returns drivers within radiusKm of the point, closest
// first, with their stored status.
func (s *Store) SearchNearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]DriverLocation, error) {
	locs, err := s.redis.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   center.Lat,
			Longitude:  center.Lng,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]DriverLocation, 0, len(locs))
	for _, l := range locs {
		raw, err := s.redis.Get(ctx, statusPrefix+l.Name).Bytes()
		if err == redis.Nil {
			continue // status expired; treat as offline
		}
		if err != nil {
			return nil, err
		}
		var state driverState
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, err
		}
		out = append(out, DriverLocation{
			DriverID:  types.ID(l.Name),
			Status:    state.Status,
			Position:  types.Point{Lat: l.Latitude, Lng: l.Longitude},
			UpdatedAt: state.UpdatedAt,
		})
	}
	return out, nil
}

// AppendSnapshot records the position in Postgres for audit/replay.
func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO driver_location_snapshots (
			driver_id, status, lat, lng, recorded_at
		) VALUES ($1, $2, $3, $4, $5)`,
		string(snap.DriverID),
		string(snap.Status),
		snap.Position.Lat,
		snap.Position.Lng,
		snap.RecordedAt,
	)
	return err
}
