package distance

import (
	"context"
	"fmt"
	"route-time-service/internal/ports"
	"strings"
)

// TableResolver reads pre-computed network distances. Pairs are looked up
// in both directions since tariff tables usually store one of them.
type TableResolver struct {
	Distances ports.DistanceRepository
}

func NewTableResolver(distances ports.DistanceRepository) *TableResolver {
	return &TableResolver{Distances: distances}
}

func (t *TableResolver) Distance(ctx context.Context, from, to string) (float64, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return 0, fmt.Errorf("table distance: station codes must be non-empty")
	}
	if from == to {
		return 0, nil
	}

	km, ok, err := t.Distances.GetDistance(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("table distance %q -> %q: %w", from, to, err)
	}
	if ok {
		return km, nil
	}

	km, ok, err = t.Distances.GetDistance(ctx, to, from)
	if err != nil {
		return 0, fmt.Errorf("table distance %q -> %q: %w", to, from, err)
	}
	if !ok {
		return 0, fmt.Errorf("table distance: no entry for %q -> %q", from, to)
	}
	return km, nil
}
