package repository

import (
	"context"
	"errors"

	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

// ListingRepository is the adapter over the catalog's listings table.
// This engine only reads the reservation-relevant slice and flips status
// between active, reserved and completed; everything else belongs to the
// catalog service.
type ListingRepository struct {
	db DBTX
}

func NewListingRepository(db DBTX) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*shared.ListingSnapshot, error) {
	var snap shared.ListingSnapshot
	err := r.db.QueryRow(ctx, `
		SELECT id, seller_id, price_cents, status
		FROM listings WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.SellerID, &snap.PriceCents, &snap.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "listing not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query listing", err)
	}
	return &snap, nil
}

func (r *ListingRepository) MarkReserved(ctx context.Context, listingID, buyerID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE listings
		SET status = $3, buyer_id = $2, updated_at = now()
		WHERE id = $1 AND status = $4`,
		listingID, buyerID, shared.ListingReserved, shared.ListingActive,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to reserve listing", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ListingRepository) ReleaseToActive(ctx context.Context, listingID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE listings
		SET status = $2, buyer_id = NULL, updated_at = now()
		WHERE id = $1 AND status = $3`,
		listingID, shared.ListingActive, shared.ListingReserved,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to release listing", err)
	}
	return nil
}

func (r *ListingRepository) MarkCompleted(ctx context.Context, listingID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE listings
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		listingID, shared.ListingCompleted, shared.ListingReserved,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to complete listing", err)
	}
	return nil
}
