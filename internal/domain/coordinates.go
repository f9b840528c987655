package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Report whether both components are zero, which marks unknown coordinates.
func (c Coordinates) IsZero() bool { return c.Lon == 0 && c.Lat == 0 }
