package validation

import (
	"context"
	"route-time-service/internal/domain"
)

// AlwaysValid accepts every request. It is the default until reference
// data is available to the service.
type AlwaysValid struct{}

func (AlwaysValid) Validate(ctx context.Context, req domain.RouteRequest) bool { return true }
