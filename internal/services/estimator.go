package services

import (
	"context"
	"errors"
	"fmt"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/logger"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"
)

// RouteTimeEstimator turns a route request into a travel-time estimate:
// validation, distance resolution, feature assembly and inference.
//
// Model may be nil, in which case every valid request is answered with 0.0.
// The estimator holds no mutable state and is safe for concurrent use.
type RouteTimeEstimator struct {
	Validator ports.RequestValidator
	Distance  ports.DistanceResolver
	Model     ports.TravelTimeModel
	Metrics   *obs.Metrics
	Log       logger.Logger
}

func NewRouteTimeEstimator(
	validator ports.RequestValidator,
	distance ports.DistanceResolver,
	model ports.TravelTimeModel,
	metrics *obs.Metrics,
	log logger.Logger,
) (*RouteTimeEstimator, error) {
	if validator == nil {
		return nil, errors.New("new route time estimator: validator must be non-nil")
	}
	if distance == nil {
		return nil, errors.New("new route time estimator: distance resolver must be non-nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	return &RouteTimeEstimator{
		Validator: validator,
		Distance:  distance,
		Model:     model,
		Metrics:   metrics,
		Log:       log,
	}, nil
}

// Report whether a model is available for inference.
func (e *RouteTimeEstimator) ModelLoaded() bool { return e.Model != nil }

// Estimate returns the predicted travel time for req.
//
// Errors wrap domain.ErrInvalidRequest, domain.ErrDistanceUnavailable or
// domain.ErrPredictionFailed so the API layer can map them to messages.
func (e *RouteTimeEstimator) Estimate(ctx context.Context, req domain.RouteRequest) (_ float64, err error) {
	defer obs.Time(ctx, "estimator.Estimate")(&err)
	defer func() { e.recordOutcome(err) }()

	reqID := obs.RequestID(ctx)

	if !e.Validator.Validate(ctx, req) {
		e.Log.Infof("req_id=%s request validation failed", reqID)
		return 0, domain.ErrInvalidRequest
	}
	e.Log.Debugf("req_id=%s request is valid", reqID)

	distance, err := e.Distance.Distance(ctx, req.StationFrom, req.StationTo)
	if err != nil {
		e.Log.Errorf("req_id=%s resolve distance %q -> %q: %v", reqID, req.StationFrom, req.StationTo, err)
		return 0, fmt.Errorf("estimate: %w: %v", domain.ErrDistanceUnavailable, err)
	}

	vec := BuildFeatureVector(req, distance)

	travelTime, err := e.timedPredict(ctx, vec)
	if err != nil {
		e.Log.Errorf("req_id=%s %v", reqID, err)
		return 0, fmt.Errorf("estimate: %w: %v", domain.ErrPredictionFailed, err)
	}

	return travelTime, nil
}

func (e *RouteTimeEstimator) recordOutcome(err error) {
	if e.Metrics == nil {
		return
	}

	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidRequest):
		outcome = "invalid"
	case errors.Is(err, domain.ErrDistanceUnavailable):
		outcome = "distance_error"
	default:
		outcome = "prediction_error"
	}
	e.Metrics.Estimates.WithLabelValues(outcome).Inc()
}
