package distance

import (
	"context"
	"fmt"
)

type StaticPair struct {
	From, To string
	KM       float64
}

// Directed station pair. Codes are opaque, so pairs are never joined into one string.
type stationPair struct {
	from, to string
}

// StaticResolver answers from a fixed set of pairs.
type StaticResolver struct {
	m map[stationPair]float64
}

func NewStaticResolver(pairs []StaticPair) *StaticResolver {
	m := make(map[stationPair]float64, len(pairs))
	for _, p := range pairs {
		m[stationPair{from: p.From, to: p.To}] = p.KM
	}
	return &StaticResolver{m: m}
}

func (s *StaticResolver) Distance(ctx context.Context, from, to string) (float64, error) {
	km, ok := s.m[stationPair{from: from, to: to}]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", from, to)
	}

	return km, nil
}
