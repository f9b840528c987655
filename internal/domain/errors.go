package domain

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid input parameters")
	ErrDistanceUnavailable = errors.New("distance unavailable")
	ErrPredictionFailed    = errors.New("prediction failed")
)
