package request

const defaultSearchRadiusKm = 5.0

// NearbyLockersQuery binds the geo search parameters. Lat/Lng are
// pointers because 0 is a legal coordinate; range checks live in the
// locker domain package.
type NearbyLockersQuery struct {
	Lat      *float64 `form:"lat" binding:"required"`
	Lng      *float64 `form:"lng" binding:"required"`
	RadiusKm *float64 `form:"radius_km"`
}

func (q *NearbyLockersQuery) Radius() float64 {
	if q.RadiusKm == nil {
		return defaultSearchRadiusKm
	}
	return *q.RadiusKm
}
