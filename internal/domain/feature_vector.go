package domain

// Number of model inputs.
const FeatureCount = 18

// Column names in the exact order the travel-time model was trained on.
// The model receives positional input, so this list and BuildFeatureVector
// must change together with the model artifact.
var FeatureColumns = [FeatureCount]string{
	"date_depart_year",
	"date_depart_month",
	"date_depart_week",
	"date_depart_day",
	"date_depart_hour",
	"fr_id",
	"route_type",
	"is_load",
	"rod",
	"common_ch",
	"vidsobst",
	"distance",
	"snd_org_id",
	"rsv_org_id",
	"snd_roadid",
	"rsv_roadid",
	"snd_dp_id",
	"rsv_dp_id",
}

// Fixed-order numeric encoding of a RouteRequest plus its derived distance.
type FeatureVector [FeatureCount]float64

// Return the vector as a slice suitable for a single model input row.
func (v FeatureVector) Row() []float64 {
	row := make([]float64, FeatureCount)
	copy(row, v[:])
	return row
}
