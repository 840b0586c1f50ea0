package response

import (
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"
)

type LockerResponse struct {
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

func FromLockerView(v *queries.LockerView) *LockerResponse {
	return &LockerResponse{
		ID:                    v.ID,
		Name:                  v.Name,
		Address:               v.Address,
		Latitude:              v.Latitude,
		Longitude:             v.Longitude,
		TotalCompartments:     v.TotalCompartments,
		AvailableCompartments: v.AvailableCompartments,
		OperatingHours:        v.OperatingHours,
		Status:                v.Status,
	}
}

type NearbyLockerResponse struct {
	LockerResponse
	DistanceKm float64 `json:"distance_km"`
}

func FromNearbyLockerView(v *queries.NearbyLockerView) *NearbyLockerResponse {
	return &NearbyLockerResponse{
		LockerResponse: *FromLockerView(&v.LockerView),
		DistanceKm:     v.DistanceKm,
	}
}
