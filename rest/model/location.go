package model

import (
	"github.com/awesome-store/store/model/location"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

type APILocation struct {
	Username  *string  `json:"username"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp *int64   `json:"timestamp"`
}

func (a *APILocation) BuildFromService(l location.Location) {
	a.Username = utility.ToStringPtr(l.Username)
	a.Latitude = utility.ToFloat64Ptr(l.Latitude)
	a.Longitude = utility.ToFloat64Ptr(l.Longitude)
	a.Timestamp = utility.ToInt64Ptr(l.Timestamp)
}

// ToService returns a service layer location. A missing timestamp is filled
// in when the location is stored.
func (a *APILocation) ToService() (*location.Location, error) {
	if a.Latitude == nil || a.Longitude == nil {
		return nil, errors.New("latitude and longitude are required")
	}

	l := &location.Location{
		Username:  utility.FromStringPtr(a.Username),
		Latitude:  utility.FromFloat64Ptr(a.Latitude),
		Longitude: utility.FromFloat64Ptr(a.Longitude),
		Timestamp: utility.FromInt64Ptr(a.Timestamp),
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid location")
	}
	return l, nil
}

func NewAPILocations(locations []location.Location) []APILocation {
	out := make([]APILocation, 0, len(locations))
	for _, l := range locations {
		apiLocation := APILocation{}
		apiLocation.BuildFromService(l)
		out = append(out, apiLocation)
	}
	return out
}
