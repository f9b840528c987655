package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"
	"time"
)

// Run the model on a single feature row and return its first prediction.
//
// A nil model yields 0.0 without an error: the service keeps answering in
// degraded mode when it was started without a model. Callers are expected to
// surface that state through logs and metrics.
func PredictTravelTime(
	ctx context.Context,
	model ports.TravelTimeModel,
	vec domain.FeatureVector,
) (_ float64, err error) {
	defer obs.Time(ctx, "model.Predict")(&err)

	if model == nil {
		return 0.0, nil
	}

	preds, err := model.Predict([][]float64{vec.Row()})
	if err != nil {
		return 0, fmt.Errorf("predict travel time: %w", err)
	}
	if len(preds) == 0 {
		return 0, errors.New("predict travel time: model returned no predictions")
	}

	if math.IsNaN(preds[0]) || math.IsInf(preds[0], 0) {
		return 0, fmt.Errorf("predict travel time: non-finite prediction %v", preds[0])
	}

	return preds[0], nil
}

// timedPredict wraps PredictTravelTime with the inference latency histogram.
func (e *RouteTimeEstimator) timedPredict(ctx context.Context, vec domain.FeatureVector) (float64, error) {
	if e.Model == nil {
		if e.Metrics != nil {
			e.Metrics.ModelMissing.Inc()
		}
		e.Log.Warnf("req_id=%s no model loaded, answering travel_time=0", obs.RequestID(ctx))
		return PredictTravelTime(ctx, nil, vec)
	}

	start := time.Now()
	v, err := PredictTravelTime(ctx, e.Model, vec)
	if e.Metrics != nil {
		e.Metrics.Inference.Observe(time.Since(start).Seconds())
	}
	return v, err
}
