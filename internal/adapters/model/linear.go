package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

type linearDocument struct {
	Columns      []string  `json:"columns"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// LinearModel is an ordinary linear regression: y = intercept + X·coef.
type LinearModel struct {
	names     []string
	intercept float64
	coef      *mat.VecDense
}

// DecodeLinear parses {"columns": [...], "intercept": f, "coefficients": [...]}.
func DecodeLinear(r io.Reader) (*LinearModel, error) {
	var doc linearDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode linear model: %w", err)
	}
	if len(doc.Coefficients) == 0 {
		return nil, errors.New("decode linear model: no coefficients")
	}
	if len(doc.Columns) > 0 && len(doc.Columns) != len(doc.Coefficients) {
		return nil, fmt.Errorf("decode linear model: %d columns for %d coefficients", len(doc.Columns), len(doc.Coefficients))
	}

	return &LinearModel{
		names:     doc.Columns,
		intercept: doc.Intercept,
		coef:      mat.NewVecDense(len(doc.Coefficients), doc.Coefficients),
	}, nil
}

func (m *LinearModel) FeatureNames() []string { return m.names }

func (m *LinearModel) NumFeatures() int { return m.coef.Len() }

func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return []float64{}, nil
	}

	p := m.coef.Len()
	flat := make([]float64, 0, len(rows)*p)
	for i, row := range rows {
		if len(row) < p {
			return nil, fmt.Errorf("linear predict: row %d has %d features, want %d", i, len(row), p)
		}
		flat = append(flat, row[:p]...)
	}

	x := mat.NewDense(len(rows), p, flat)
	var y mat.VecDense
	y.MulVec(x, m.coef)

	out := make([]float64, len(rows))
	for i := range out {
		out[i] = y.AtVec(i) + m.intercept
	}
	return out, nil
}
