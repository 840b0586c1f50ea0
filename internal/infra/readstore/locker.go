package readstore

import (
	"context"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/locker"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra/repository"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"
)

type LockerReadStore struct {
	db repository.DBTX
}

func NewLockerReadStore(db repository.DBTX) *LockerReadStore {
	return &LockerReadStore{db: db}
}

func (s *LockerReadStore) FindByStatus(ctx context.Context, status locker.Status) ([]*queries.LockerView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, address, latitude, longitude,
		       total_compartments, available_compartments,
		       operating_hours, status
		FROM lockers WHERE status = $1
		ORDER BY name`, status.String(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list lockers", err)
	}
	defer rows.Close()

	var result []*queries.LockerView
	for rows.Next() {
		var v queries.LockerView
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Latitude, &v.Longitude,
			&v.TotalCompartments, &v.AvailableCompartments, &v.OperatingHours, &v.Status); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan locker", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read locker rows", err)
	}
	return result, nil
}
