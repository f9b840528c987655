package validation

import (
	"context"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/logger"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ReferenceValidator checks a request against station reference data:
// both stations must exist, and each station's railroad and regional
// directorate must match the ids declared in the request.
//
// Station lookups are memoized for ttl, including misses.
type ReferenceValidator struct {
	stations ports.StationRepository
	cache    *gocache.Cache
	log      logger.Logger
}

type cachedStation struct {
	station domain.Station
	found   bool
}

func NewReferenceValidator(stations ports.StationRepository, ttl time.Duration) *ReferenceValidator {
	return &ReferenceValidator{
		stations: stations,
		cache:    gocache.New(ttl, 2*ttl),
		log:      logger.New("validation"),
	}
}

func (v *ReferenceValidator) Validate(ctx context.Context, req domain.RouteRequest) bool {
	from := strings.TrimSpace(req.StationFrom)
	to := strings.TrimSpace(req.StationTo)
	if from == "" || to == "" {
		return false
	}

	stations, err := v.lookup(ctx, from, to)
	if err != nil {
		v.log.Errorf("req_id=%s station lookup failed: %v", obs.RequestID(ctx), err)
		return false
	}

	snd, ok := stations[from]
	if !ok || snd.RoadID != req.SenderRoad || snd.DPID != req.SenderDP {
		return false
	}
	rsv, ok := stations[to]
	if !ok || rsv.RoadID != req.ReceiverRoad || rsv.DPID != req.ReceiverDP {
		return false
	}

	return true
}

func (v *ReferenceValidator) lookup(ctx context.Context, codes ...string) (map[string]domain.Station, error) {
	out := make(map[string]domain.Station, len(codes))
	missing := make([]string, 0, len(codes))
	for _, c := range codes {
		if item, ok := v.cache.Get(c); ok {
			if cs := item.(cachedStation); cs.found {
				out[c] = cs.station
			}
			continue
		}
		missing = append(missing, c)
	}

	if len(missing) == 0 {
		return out, nil
	}

	found, err := v.stations.GetStations(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, c := range missing {
		st, ok := found[c]
		v.cache.SetDefault(c, cachedStation{station: st, found: ok})
		if ok {
			out[c] = st
		}
	}

	return out, nil
}
