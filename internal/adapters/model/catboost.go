package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type catboostFloatFeature struct {
	FeatureIndex     int       `json:"feature_index"`
	FlatFeatureIndex int       `json:"flat_feature_index"`
	FeatureID        string    `json:"feature_id"`
	Borders          []float64 `json:"borders"`
}

type catboostSplit struct {
	FloatFeatureIndex int     `json:"float_feature_index"`
	Border            float64 `json:"border"`
	SplitType         string  `json:"split_type"`
}

type catboostTree struct {
	LeafValues []float64       `json:"leaf_values"`
	Splits     []catboostSplit `json:"splits"`
}

// catboostDocument is the subset of CatBoost's JSON export used for evaluation
// (model.save_model(path, format="json")).
type catboostDocument struct {
	FeaturesInfo struct {
		FloatFeatures       []catboostFloatFeature `json:"float_features"`
		CategoricalFeatures []json.RawMessage      `json:"categorical_features"`
	} `json:"features_info"`
	ObliviousTrees []catboostTree    `json:"oblivious_trees"`
	Trees          json.RawMessage   `json:"trees"`
	ScaleAndBias   []json.RawMessage `json:"scale_and_bias"`
}

// Upper bound on flat feature indices accepted from an export.
const maxCatBoostFeatures = 1 << 16

// obliviousTree applies the same split at every node of a level, so the
// leaf index is the bitmask of the level outcomes.
type obliviousTree struct {
	features []int
	borders  []float64
	leaves   []float64
}

// CatBoostModel evaluates a CatBoost regression model with numeric features
// and symmetric (oblivious) trees. It is immutable after decoding.
type CatBoostModel struct {
	trees       []obliviousTree
	scale       float64
	bias        float64
	numFeatures int
	names       []string
}

// DecodeCatBoost parses a CatBoost JSON export.
func DecodeCatBoost(r io.Reader) (*CatBoostModel, error) {
	var doc catboostDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catboost model: %w", err)
	}

	if len(doc.FeaturesInfo.CategoricalFeatures) > 0 {
		return nil, errors.New("decode catboost model: categorical features are not supported")
	}
	if len(doc.ObliviousTrees) == 0 {
		if len(doc.Trees) > 0 {
			return nil, errors.New("decode catboost model: non-symmetric trees are not supported")
		}
		return nil, errors.New("decode catboost model: no trees")
	}

	flatByIndex := make(map[int]int, len(doc.FeaturesInfo.FloatFeatures))
	seenFlat := make(map[int]bool, len(doc.FeaturesInfo.FloatFeatures))
	numFeatures := 0
	for i, f := range doc.FeaturesInfo.FloatFeatures {
		if f.FlatFeatureIndex < 0 || f.FlatFeatureIndex >= maxCatBoostFeatures {
			return nil, fmt.Errorf("decode catboost model: float feature %d: flat_feature_index %d out of range", i, f.FlatFeatureIndex)
		}
		if seenFlat[f.FlatFeatureIndex] {
			return nil, fmt.Errorf("decode catboost model: float feature %d: duplicate flat_feature_index %d", i, f.FlatFeatureIndex)
		}
		if _, dup := flatByIndex[f.FeatureIndex]; dup {
			return nil, fmt.Errorf("decode catboost model: float feature %d: duplicate feature_index %d", i, f.FeatureIndex)
		}
		seenFlat[f.FlatFeatureIndex] = true
		flatByIndex[f.FeatureIndex] = f.FlatFeatureIndex
		if f.FlatFeatureIndex+1 > numFeatures {
			numFeatures = f.FlatFeatureIndex + 1
		}
	}

	names := make([]string, numFeatures)
	named := 0
	for _, f := range doc.FeaturesInfo.FloatFeatures {
		if f.FeatureID != "" {
			names[f.FlatFeatureIndex] = f.FeatureID
			named++
		}
	}
	if named == 0 {
		names = nil
	}

	m := &CatBoostModel{
		trees:       make([]obliviousTree, 0, len(doc.ObliviousTrees)),
		scale:       1,
		numFeatures: numFeatures,
		names:       names,
	}

	for i, t := range doc.ObliviousTrees {
		if want := 1 << len(t.Splits); len(t.LeafValues) != want {
			return nil, fmt.Errorf("decode catboost model: tree %d has %d leaves, want %d", i, len(t.LeafValues), want)
		}

		tree := obliviousTree{
			features: make([]int, len(t.Splits)),
			borders:  make([]float64, len(t.Splits)),
			leaves:   t.LeafValues,
		}
		for j, s := range t.Splits {
			if s.SplitType != "" && s.SplitType != "FloatFeature" {
				return nil, fmt.Errorf("decode catboost model: tree %d split %d: unsupported split type %q", i, j, s.SplitType)
			}
			flat, ok := flatByIndex[s.FloatFeatureIndex]
			if !ok {
				return nil, fmt.Errorf("decode catboost model: tree %d split %d: unknown float feature %d", i, j, s.FloatFeatureIndex)
			}
			tree.features[j] = flat
			tree.borders[j] = s.Border
		}
		m.trees = append(m.trees, tree)
	}

	if err := m.decodeScaleAndBias(doc.ScaleAndBias); err != nil {
		return nil, err
	}

	return m, nil
}

// scale_and_bias is [scale, [bias...]]; older exports carry a scalar bias.
func (m *CatBoostModel) decodeScaleAndBias(raw []json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if len(raw) != 2 {
		return fmt.Errorf("decode catboost model: scale_and_bias has %d entries, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &m.scale); err != nil {
		return fmt.Errorf("decode catboost model: scale: %w", err)
	}

	var biases []float64
	if err := json.Unmarshal(raw[1], &biases); err != nil {
		var bias float64
		if err := json.Unmarshal(raw[1], &bias); err != nil {
			return fmt.Errorf("decode catboost model: bias: %w", err)
		}
		biases = []float64{bias}
	}
	switch len(biases) {
	case 0:
	case 1:
		m.bias = biases[0]
	default:
		return fmt.Errorf("decode catboost model: multi-dimensional bias (%d) is not supported", len(biases))
	}
	return nil
}

// Return the feature names declared by the model, or nil when the export has none.
func (m *CatBoostModel) FeatureNames() []string { return m.names }

// Return the number of input columns the model reads.
func (m *CatBoostModel) NumFeatures() int { return m.numFeatures }

// Predict evaluates every row and returns the raw regression output.
func (m *CatBoostModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) < m.numFeatures {
			return nil, fmt.Errorf("catboost predict: row %d has %d features, want %d", i, len(row), m.numFeatures)
		}
		out[i] = m.predictRow(row)
	}
	return out, nil
}

func (m *CatBoostModel) predictRow(row []float64) float64 {
	sum := 0.0
	for _, t := range m.trees {
		idx := 0
		for j, f := range t.features {
			if row[f] > t.borders[j] {
				idx |= 1 << j
			}
		}
		sum += t.leaves[idx]
	}
	return m.scale*sum + m.bias
}
