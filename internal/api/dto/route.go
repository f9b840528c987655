package dto

import (
	"errors"
	"fmt"
	"route-time-service/internal/domain"
	"strings"
)

// RouteRequest is the POST /api/route-time body. Every field is required;
// pointers distinguish a missing field from a zero value.
type RouteRequest struct {
	StCodeSnd       *string `json:"st_code_snd"`
	StCodeRsv       *string `json:"st_code_rsv"`
	DateDepartYear  *int    `json:"date_depart_year"`
	DateDepartMonth *int    `json:"date_depart_month"`
	DateDepartWeek  *int    `json:"date_depart_week"`
	DateDepartDay   *int    `json:"date_depart_day"`
	DateDepartHour  *int    `json:"date_depart_hour"`
	FrID            *int    `json:"fr_id"`
	RouteType       *int    `json:"route_type"`
	IsLoad          *int    `json:"is_load"`
	Rod             *int    `json:"rod"`
	CommonCh        *int    `json:"common_ch"`
	Vidsobst        *int    `json:"vidsobst"`
	SndOrgID        *int    `json:"snd_org_id"`
	RsvOrgID        *int    `json:"rsv_org_id"`
	SndRoadID       *int    `json:"snd_roadid"`
	RsvRoadID       *int    `json:"rsv_roadid"`
	SndDpID         *int    `json:"snd_dp_id"`
	RsvDpID         *int    `json:"rsv_dp_id"`
}

// ToDomain converts the body into a domain request, reporting every missing field.
func (r RouteRequest) ToDomain() (domain.RouteRequest, error) {
	var missing []string
	str := func(name string, v *string) string {
		if v == nil {
			missing = append(missing, name)
			return ""
		}
		return *v
	}
	num := func(name string, v *int) int {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return *v
	}

	req := domain.RouteRequest{
		StationFrom:  str("st_code_snd", r.StCodeSnd),
		StationTo:    str("st_code_rsv", r.StCodeRsv),
		DepartYear:   num("date_depart_year", r.DateDepartYear),
		DepartMonth:  num("date_depart_month", r.DateDepartMonth),
		DepartWeek:   num("date_depart_week", r.DateDepartWeek),
		DepartDay:    num("date_depart_day", r.DateDepartDay),
		DepartHour:   num("date_depart_hour", r.DateDepartHour),
		FreightID:    num("fr_id", r.FrID),
		RouteType:    num("route_type", r.RouteType),
		IsLoaded:     num("is_load", r.IsLoad),
		CarKind:      num("rod", r.Rod),
		CommonCh:     num("common_ch", r.CommonCh),
		OwnerKind:    num("vidsobst", r.Vidsobst),
		SenderOrg:    num("snd_org_id", r.SndOrgID),
		ReceiverOrg:  num("rsv_org_id", r.RsvOrgID),
		SenderRoad:   num("snd_roadid", r.SndRoadID),
		ReceiverRoad: num("rsv_roadid", r.RsvRoadID),
		SenderDP:     num("snd_dp_id", r.SndDpID),
		ReceiverDP:   num("rsv_dp_id", r.RsvDpID),
	}

	if len(missing) > 0 {
		return domain.RouteRequest{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return req, nil
}

// RouteAPIResponse is the envelope returned by POST /api/route-time.
// The outer status fields are fixed at 0/"Ok"; callers inspect Response.
type RouteAPIResponse struct {
	OpStatusCode int    `json:"op_status_code"`
	OpStatusDesc string `json:"op_status_desc"`
	Response     any    `json:"response"`
}

// NewRouteAPIResponse wraps an estimate or its error in the fixed 0/"Ok" envelope.
func NewRouteAPIResponse(travelTime float64, err error) RouteAPIResponse {
	res := RouteAPIResponse{OpStatusCode: 0, OpStatusDesc: "Ok"}
	if err != nil {
		res.Response = ErrorResponse{Error: ErrorMessage(err)}
	} else {
		res.Response = TravelTimeResponse{TravelTime: travelTime}
	}
	return res
}

// ErrorMessage maps an estimation error to the message returned to callers.
// Internal details stay in the logs.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "Invalid input parameters"
	case errors.Is(err, domain.ErrDistanceUnavailable):
		return "Distance unavailable"
	case errors.Is(err, domain.ErrPredictionFailed):
		return "Prediction failed"
	default:
		return "Internal error"
	}
}

type TravelTimeResponse struct {
	TravelTime float64 `json:"travel_time"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HelloResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
