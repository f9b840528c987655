package model

import (
	"fmt"
	"io"
	"os"
	"route-time-service/internal/domain"
	"route-time-service/internal/ports"
)

// Model is a loaded artifact that also describes its input schema.
type Model interface {
	ports.TravelTimeModel
	FeatureNames() []string
	NumFeatures() int
}

// Load reads the artifact at path in the given format ("catboost" or "linear")
// and checks it against the service feature schema.
func Load(format, path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(format, f)
	if err != nil {
		return nil, fmt.Errorf("load model %q: %w", path, err)
	}
	return m, nil
}

// Decode parses a model artifact and checks its schema.
func Decode(format string, r io.Reader) (Model, error) {
	var (
		m   Model
		err error
	)
	switch format {
	case "catboost":
		m, err = DecodeCatBoost(r)
	case "linear":
		m, err = DecodeLinear(r)
	default:
		return nil, fmt.Errorf("unknown model format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := CheckSchema(m); err != nil {
		return nil, err
	}
	return m, nil
}

// CheckSchema verifies the model reads the service feature columns in order.
// Models without declared names only need a compatible width.
func CheckSchema(m Model) error {
	if m.NumFeatures() > domain.FeatureCount {
		return fmt.Errorf("model schema: model reads %d features, service provides %d", m.NumFeatures(), domain.FeatureCount)
	}

	names := m.FeatureNames()
	if names == nil {
		return nil
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		if name != domain.FeatureColumns[i] {
			return fmt.Errorf("model schema: column %d is %q, want %q", i, name, domain.FeatureColumns[i])
		}
	}
	return nil
}
