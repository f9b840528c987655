package model

import (
	"os"
	"path/filepath"
	"route-time-service/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatBoostFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(twoTreeModel), 0o600))

	m, err := Load("catboost", path)
	require.NoError(t, err)

	got, err := m.Predict([][]float64{row(2024, 3)})
	require.NoError(t, err)
	assert.Equal(t, []float64{49}, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("catboost", filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode("pickle", strings.NewReader(`{}`))
	assert.Error(t, err)
}

func TestDecodeRejectsReorderedColumns(t *testing.T) {
	doc := strings.Replace(twoTreeModel, `"date_depart_month"`, `"distance"`, 1)
	_, err := Decode("catboost", strings.NewReader(doc))
	assert.ErrorContains(t, err, "column 1")
}

func TestDecodeLinearWithFullSchema(t *testing.T) {
	cols := `"` + strings.Join(domain.FeatureColumns[:], `","`) + `"`
	coef := strings.TrimSuffix(strings.Repeat("0,", domain.FeatureCount-1), ",")
	doc := `{"columns": [` + cols + `], "intercept": 3, "coefficients": [` + coef + `,0.1]}`

	m, err := Decode("linear", strings.NewReader(doc))
	require.NoError(t, err)

	vec := make([]float64, domain.FeatureCount)
	vec[domain.FeatureCount-1] = 10
	got, err := m.Predict([][]float64{vec})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got[0], 1e-12)
}

func TestCheckSchemaRejectsWideModel(t *testing.T) {
	coef := strings.TrimSuffix(strings.Repeat("1,", domain.FeatureCount+1), ",")
	_, err := Decode("linear", strings.NewReader(`{"coefficients": [`+coef+`]}`))
	assert.Error(t, err)
}
