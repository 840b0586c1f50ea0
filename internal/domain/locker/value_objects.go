package locker

import (
	"errors"
	"math"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrInvalidRadius    = errors.New("radius must be between 0.1 and 100 km")
)

const (
	MinSearchRadiusKm = 0.1
	MaxSearchRadiusKm = 100.0

	earthRadiusKm = 6371.0
)

type Coordinates struct {
	latitude  float64
	longitude float64
}

func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	if latitude < -90 || latitude > 90 {
		return Coordinates{}, ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return Coordinates{}, ErrInvalidLongitude
	}
	return Coordinates{latitude: latitude, longitude: longitude}, nil
}

func (c Coordinates) Latitude() float64 {
	return c.latitude
}

func (c Coordinates) Longitude() float64 {
	return c.longitude
}

// DistanceKm computes the great-circle distance using the haversine
// formula. Adequate for ranking nearby stations; not survey-grade.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := c.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - c.latitude) * math.Pi / 180
	dLng := (other.longitude - c.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func ValidateSearchRadiusKm(radius float64) error {
	if radius < MinSearchRadiusKm || radius > MaxSearchRadiusKm {
		return ErrInvalidRadius
	}
	return nil
}
