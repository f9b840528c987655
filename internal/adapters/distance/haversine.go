package distance

import (
	"context"
	"fmt"
	"math"
	"route-time-service/internal/ports"
	"strings"
)

const earthRadiusKM = 6371.0

// HaversineResolver computes the great-circle distance between the stored
// coordinates of two stations.
type HaversineResolver struct {
	Stations ports.StationRepository
}

func NewHaversineResolver(stations ports.StationRepository) *HaversineResolver {
	return &HaversineResolver{Stations: stations}
}

func (h *HaversineResolver) Distance(ctx context.Context, from, to string) (float64, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, fmt.Errorf("haversine distance: station codes must be non-empty")
	}
	if from == to {
		return 0, nil
	}

	stations, err := h.Stations.GetStations(ctx, []string{from, to})
	if err != nil {
		return 0, fmt.Errorf("haversine distance %q -> %q: %w", from, to, err)
	}

	a, ok := stations[from]
	if !ok || a.Coords.IsZero() {
		return 0, fmt.Errorf("haversine distance: no coordinates for station %q", from)
	}
	b, ok := stations[to]
	if !ok || b.Coords.IsZero() {
		return 0, fmt.Errorf("haversine distance: no coordinates for station %q", to)
	}

	return GreatCircleKM(a.Coords.Lat, a.Coords.Lon, b.Coords.Lat, b.Coords.Lon), nil
}

// GreatCircleKM returns the haversine distance in kilometers between two points in degrees.
func GreatCircleKM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}
