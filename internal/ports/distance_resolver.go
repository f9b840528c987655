package ports

import "context"

// Contract for resolving the travel distance between two stations.
type DistanceResolver interface {
	// Return the distance in kilometers between the departure and arrival station codes.
	Distance(ctx context.Context, from string, to string) (float64, error)
}
