package readstore

import (
	"context"
	"errors"

	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra/repository"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

type OrderReadStore struct {
	db repository.DBTX
}

func NewOrderReadStore(db repository.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (s *OrderReadStore) FindByID(ctx context.Context, id int64) (*queries.OrderView, error) {
	var v queries.OrderView
	err := s.db.QueryRow(ctx, `
		SELECT id, listing_id, locker_id, buyer_id, seller_id,
		       item_price_cents, delivery_fee_cents, total_price_cents, status,
		       reserved_at, payment_deadline, paid_at, pickup_scheduled_at,
		       rider_picked_up_at, delivered_at, picked_up_at, expires_at,
		       pickup_pin, compartment_number, cancel_reason
		FROM orders WHERE id = $1`, id,
	).Scan(
		&v.ID, &v.ListingID, &v.LockerID, &v.BuyerID, &v.SellerID,
		&v.ItemPriceCents, &v.DeliveryFeeCents, &v.TotalPriceCents, &v.Status,
		&v.ReservedAt, &v.PaymentDeadline, &v.PaidAt, &v.PickupScheduledAt,
		&v.RiderPickedUpAt, &v.DeliveredAt, &v.PickedUpAt, &v.ExpiresAt,
		&v.PickupPin, &v.CompartmentNumber, &v.CancelReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "order not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query order view", err)
	}
	return &v, nil
}

func (s *OrderReadStore) FindByBuyer(ctx context.Context, buyerID int64) ([]*queries.OrderListItem, error) {
	return s.findByParticipant(ctx, "buyer_id", buyerID)
}

func (s *OrderReadStore) FindBySeller(ctx context.Context, sellerID int64) ([]*queries.OrderListItem, error) {
	return s.findByParticipant(ctx, "seller_id", sellerID)
}

func (s *OrderReadStore) findByParticipant(ctx context.Context, column string, userID int64) ([]*queries.OrderListItem, error) {
	// column is one of two fixed identifiers, never user input.
	rows, err := s.db.Query(ctx, `
		SELECT id, listing_id, locker_id, status, total_price_cents, reserved_at
		FROM orders WHERE `+column+` = $1
		ORDER BY reserved_at DESC`, userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list orders", err)
	}
	defer rows.Close()

	var result []*queries.OrderListItem
	for rows.Next() {
		var item queries.OrderListItem
		if err := rows.Scan(&item.ID, &item.ListingID, &item.LockerID, &item.Status, &item.TotalPriceCents, &item.ReservedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan order list item", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read order rows", err)
	}
	return result, nil
}
