package services

import "route-time-service/internal/domain"

// Encode a route request and its resolved distance into the model's feature order.
//
// The order mirrors domain.FeatureColumns exactly; the model has no header
// matching at inference time, so both must change together.
func BuildFeatureVector(req domain.RouteRequest, distance float64) domain.FeatureVector {
	return domain.FeatureVector{
		float64(req.DepartYear),
		float64(req.DepartMonth),
		float64(req.DepartWeek),
		float64(req.DepartDay),
		float64(req.DepartHour),
		float64(req.FreightID),
		float64(req.RouteType),
		float64(req.IsLoaded),
		float64(req.CarKind),
		float64(req.CommonCh),
		float64(req.OwnerKind),
		distance,
		float64(req.SenderOrg),
		float64(req.ReceiverOrg),
		float64(req.SenderRoad),
		float64(req.ReceiverRoad),
		float64(req.SenderDP),
		float64(req.ReceiverDP),
	}
}
