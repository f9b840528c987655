package ports

import (
	"context"
	"route-time-service/internal/domain"
)

// Contract for checking the consistency of an incoming route request.
type RequestValidator interface {
	// Report whether the request identifiers are consistent.
	Validate(ctx context.Context, req domain.RouteRequest) bool
}
