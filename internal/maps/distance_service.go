// README: Google Maps driving-distance lookups for quote prefill.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Estimate is a driving-distance lookup result. DistanceKm feeds the
// pricing engine; DurationMinutes is shown to the client only.
type Estimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// DistanceService handles interactions with the Google Maps API.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a new DistanceService with the given API key.
func NewDistanceService(apiKey string) (*DistanceService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// DrivingDistance returns the driving distance and duration between two
// address strings. Errors propagate so callers can fall back to a
// manually entered distance.
func (s *DistanceService) DrivingDistance(ctx context.Context, origin, destination string) (Estimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Region:      "AU", // bias results to Australia
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Estimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return Estimate{
		DistanceKm:      float64(leg.Distance.Meters) / 1000.0,
		DurationMinutes: leg.Duration.Minutes(),
	}, nil
}
