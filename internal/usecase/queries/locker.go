package queries

import (
	"context"
	"sort"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/locker"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
)

var ErrInvalidSearchArea = errs.New("invalid search area")

type LockerView struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	Address               string  `json:"address"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	TotalCompartments     int32   `json:"total_compartments"`
	AvailableCompartments int32   `json:"available_compartments"`
	OperatingHours        string  `json:"operating_hours"`
	Status                string  `json:"status"`
}

type NearbyLockerView struct {
	LockerView
	DistanceKm float64 `json:"distance_km"`
}

type LockerReadStore interface {
	FindByStatus(ctx context.Context, status locker.Status) ([]*LockerView, error)
}

type LockerQueries interface {
	ListActive(ctx context.Context) ([]*LockerView, error)
	ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*NearbyLockerView, error)
}

type lockerQueriesImpl struct {
	store LockerReadStore
}

func NewLockerQueries(store LockerReadStore) LockerQueries {
	return &lockerQueriesImpl{store: store}
}

func (q *lockerQueriesImpl) ListActive(ctx context.Context) ([]*LockerView, error) {
	return q.store.FindByStatus(ctx, locker.StatusActive)
}

// ListNearby filters active lockers by great-circle distance. The
// registry is small enough that the distance math runs in-process.
func (q *lockerQueriesImpl) ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*NearbyLockerView, error) {
	origin, err := locker.NewCoordinates(lat, lng)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSearchArea)
	}
	if err := locker.ValidateSearchRadiusKm(radiusKm); err != nil {
		return nil, errs.Mark(err, ErrInvalidSearchArea)
	}

	active, err := q.store.FindByStatus(ctx, locker.StatusActive)
	if err != nil {
		return nil, err
	}

	nearby := make([]*NearbyLockerView, 0, len(active))
	for _, lv := range active {
		coords, err := locker.NewCoordinates(lv.Latitude, lv.Longitude)
		if err != nil {
			continue // malformed registry row; skip rather than fail the search
		}
		distance := origin.DistanceKm(coords)
		if distance <= radiusKm {
			nearby = append(nearby, &NearbyLockerView{LockerView: *lv, DistanceKm: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}
