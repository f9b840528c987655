package ports

import (
	"context"
	"route-time-service/internal/domain"
)

// Port: a boundary for retrieving station reference data.
type StationRepository interface {
	// Retrieve the stations for the given codes. Unknown codes are absent from the result.
	GetStations(ctx context.Context, codes []string) (map[string]domain.Station, error)
}

// Port: a boundary for retrieving pre-computed network distances between stations.
type DistanceRepository interface {
	// Retrieve the distance in kilometers. ok is false when the pair is unknown.
	GetDistance(ctx context.Context, from string, to string) (km float64, ok bool, err error)
}
