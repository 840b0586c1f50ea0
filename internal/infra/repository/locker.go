package repository

import (
	"context"
	"errors"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/locker"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra"

	"github.com/jackc/pgx/v5"
)

type LockerRepository struct {
	db DBTX
}

func NewLockerRepository(db DBTX) *LockerRepository {
	return &LockerRepository{db: db}
}

func (r *LockerRepository) FindByID(ctx context.Context, id int64) (*locker.Locker, error) {
	var (
		name, address, operatingHours, status string
		latitude, longitude                   float64
		total, available                      int32
	)
	err := r.db.QueryRow(ctx, `
		SELECT name, address, latitude, longitude,
		       total_compartments, available_compartments,
		       operating_hours, status
		FROM lockers WHERE id = $1`, id,
	).Scan(&name, &address, &latitude, &longitude, &total, &available, &operatingHours, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "locker not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query locker", err)
	}

	coords, err := locker.NewCoordinates(latitude, longitude)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "locker has invalid coordinates", err)
	}
	l, err := locker.ReconstructLocker(id, name, address, coords, total, available, operatingHours, locker.Status(status))
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "locker row is inconsistent", err)
	}
	return l, nil
}

// AcquireCompartment folds the availability check into the decrement so
// two concurrent reservations can never both take the last slot.
func (r *LockerRepository) AcquireCompartment(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE lockers
		SET available_compartments = available_compartments - 1, updated_at = now()
		WHERE id = $1 AND status = $2 AND available_compartments > 0`,
		id, locker.StatusActive.String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to acquire compartment", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseCompartment is guarded against exceeding capacity; a release for
// a counter already at capacity indicates double accounting and is
// surfaced as a conflict.
func (r *LockerRepository) ReleaseCompartment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE lockers
		SET available_compartments = available_compartments + 1, updated_at = now()
		WHERE id = $1 AND available_compartments < total_compartments`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to release compartment", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr(infra.KindConflict, "compartment release exceeded capacity", nil)
	}
	return nil
}
