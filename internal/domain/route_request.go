package domain

// Represents a single shipment submitted for travel-time estimation.
// A RouteRequest carries the departure and arrival stations, the departure
// timestamp broken into calendar parts, and the integer-coded organizational
// and routing attributes of the shipment. It is treated as an immutable value.
type RouteRequest struct {
	StationFrom string
	StationTo   string

	DepartYear  int
	DepartMonth int
	DepartWeek  int
	DepartDay   int
	DepartHour  int

	FreightID    int
	RouteType    int
	IsLoaded     int
	CarKind      int
	CommonCh     int
	OwnerKind    int
	SenderOrg    int
	ReceiverOrg  int
	SenderRoad   int
	ReceiverRoad int
	SenderDP     int
	ReceiverDP   int
}
