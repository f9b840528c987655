package services

import (
	"context"
	"errors"
	"math"
	"route-time-service/internal/domain"
	"route-time-service/internal/platform/obs"
	"route-time-service/internal/ports"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct{ ok bool }

func (f fakeValidator) Validate(context.Context, domain.RouteRequest) bool { return f.ok }

type fakeResolver struct {
	km    float64
	err   error
	calls int
}

func (f *fakeResolver) Distance(context.Context, string, string) (float64, error) {
	f.calls++
	return f.km, f.err
}

type fakeModel struct {
	preds []float64
	err   error
	rows  [][]float64
}

func (f *fakeModel) Predict(rows [][]float64) ([]float64, error) {
	f.rows = rows
	return f.preds, f.err
}

func newTestEstimator(t *testing.T, v fakeValidator, r *fakeResolver, m *fakeModel) (*RouteTimeEstimator, *obs.Metrics) {
	t.Helper()
	metrics, err := obs.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	var model ports.TravelTimeModel
	if m != nil {
		model = m
	}
	est, err := NewRouteTimeEstimator(v, r, model, metrics, nil)
	require.NoError(t, err)
	return est, metrics
}

func TestEstimateReturnsFirstPrediction(t *testing.T) {
	model := &fakeModel{preds: []float64{42.5, 7}}
	est, metrics := newTestEstimator(t, fakeValidator{ok: true}, &fakeResolver{km: 300}, model)

	got, err := est.Estimate(context.Background(), domain.RouteRequest{DepartYear: 2024})
	require.NoError(t, err)
	assert.Equal(t, 42.5, got)

	require.Len(t, model.rows, 1)
	assert.Equal(t, []float64{2024, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 300, 0, 0, 0, 0, 0, 0}, model.rows[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Estimates.WithLabelValues("ok")))
	assert.True(t, est.ModelLoaded())
}

func TestEstimateWithoutModelReturnsZero(t *testing.T) {
	est, metrics := newTestEstimator(t, fakeValidator{ok: true}, &fakeResolver{km: 300}, nil)

	got, err := est.Estimate(context.Background(), domain.RouteRequest{DepartYear: 2024})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	assert.False(t, est.ModelLoaded())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModelMissing))
}

func TestEstimateInvalidRequest(t *testing.T) {
	resolver := &fakeResolver{km: 300}
	est, metrics := newTestEstimator(t, fakeValidator{ok: false}, resolver, &fakeModel{preds: []float64{1}})

	_, err := est.Estimate(context.Background(), domain.RouteRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, 0, resolver.calls, "distance must not be resolved for invalid requests")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Estimates.WithLabelValues("invalid")))
}

func TestEstimateDistanceFailure(t *testing.T) {
	est, _ := newTestEstimator(t, fakeValidator{ok: true}, &fakeResolver{err: errors.New("unknown station")}, &fakeModel{preds: []float64{1}})

	_, err := est.Estimate(context.Background(), domain.RouteRequest{})
	assert.ErrorIs(t, err, domain.ErrDistanceUnavailable)
}

func TestEstimateModelFailure(t *testing.T) {
	est, _ := newTestEstimator(t, fakeValidator{ok: true}, &fakeResolver{km: 1}, &fakeModel{err: errors.New("bad row")})

	_, err := est.Estimate(context.Background(), domain.RouteRequest{})
	assert.ErrorIs(t, err, domain.ErrPredictionFailed)
}

func TestEstimateEmptyPrediction(t *testing.T) {
	est, _ := newTestEstimator(t, fakeValidator{ok: true}, &fakeResolver{km: 1}, &fakeModel{preds: nil})

	_, err := est.Estimate(context.Background(), domain.RouteRequest{})
	assert.ErrorIs(t, err, domain.ErrPredictionFailed)
}

func TestNewRouteTimeEstimatorRequiresCollaborators(t *testing.T) {
	_, err := NewRouteTimeEstimator(nil, &fakeResolver{}, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewRouteTimeEstimator(fakeValidator{}, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestEstimateRejectsNonFinitePrediction(t *testing.T) {
	est, _ := newTestEstimator(t, fakeValidator{ok: true}, &fakeResolver{km: 1}, &fakeModel{preds: []float64{math.Inf(1)}})

	_, err := est.Estimate(context.Background(), domain.RouteRequest{})
	assert.ErrorIs(t, err, domain.ErrPredictionFailed)
}
