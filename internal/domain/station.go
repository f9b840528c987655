package domain

// Reference record for a railway station.
// RoadID and DPID identify the railroad and the regional directorate
// the station belongs to.
type Station struct {
	Code   string
	Name   string
	RoadID int
	DPID   int
	Coords Coordinates
}
