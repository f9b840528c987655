package ports

// Contract for a loaded regression model predicting travel time.
// Implementations are read-only after construction and safe for concurrent use.
type TravelTimeModel interface {
	// Return one prediction per input row. Each row holds the model features
	// in positional order.
	Predict(rows [][]float64) ([]float64, error)
}
