package repository

import (
	"context"
	"errors"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	id, listing_id, locker_id, buyer_id, seller_id,
	item_price_cents, delivery_fee_cents, status,
	reserved_at, payment_deadline, paid_at, pickup_scheduled_at,
	rider_picked_up_at, delivered_at, picked_up_at, expires_at,
	pickup_pin, compartment_number, cancel_reason`

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (
			listing_id, locker_id, buyer_id, seller_id,
			item_price_cents, delivery_fee_cents, total_price_cents,
			status, reserved_at, payment_deadline
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		o.ListingID(), o.LockerID(), o.BuyerID(), o.SellerID(),
		o.ItemPrice().Cents(), o.DeliveryFee().Cents(), o.TotalPrice().Cents(),
		o.Status().String(), o.ReservedAt(), o.PaymentDeadline(),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to insert order", err)
	}
	return id, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "order not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query order", err)
	}
	return o, nil
}

// UpdateFrom persists every transition-owned column in one statement,
// guarded on the expected source status. Zero rows affected means a
// concurrent writer moved the order first.
func (r *OrderRepository) UpdateFrom(ctx context.Context, o *order.Order, from order.Status) (bool, error) {
	var pin *string
	if o.PickupPin().IsSet() {
		v := o.PickupPin().String()
		pin = &v
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET
			status = $2,
			paid_at = $3,
			pickup_scheduled_at = $4,
			rider_picked_up_at = $5,
			delivered_at = $6,
			picked_up_at = $7,
			expires_at = $8,
			pickup_pin = $9,
			compartment_number = $10,
			cancel_reason = $11,
			updated_at = now()
		WHERE id = $1 AND status = $12`,
		o.ID(), o.Status().String(),
		o.PaidAt(), o.PickupScheduledAt(), o.RiderPickedUpAt(),
		o.DeliveredAt(), o.PickedUpAt(), o.ExpiresAt(),
		pin, o.CompartmentNumber(), o.CancelReason(),
		from.String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to update order", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) ListDuePendingPayment(ctx context.Context, now time.Time, limit int32) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM orders
		WHERE status = $1 AND payment_deadline < $2
		ORDER BY payment_deadline
		LIMIT $3`,
		order.StatusPendingPayment.String(), now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list due orders", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan due order id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read due order rows", err)
	}
	return ids, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		id, listingID, lockerID, buyerID, sellerID int64
		itemPriceCents, deliveryFeeCents           int64
		status                                     string
		reservedAt, paymentDeadline                time.Time
		paidAt, pickupScheduledAt, riderPickedUpAt *time.Time
		deliveredAt, pickedUpAt, expiresAt         *time.Time
		pinValue                                   *string
		compartmentNumber                          *int32
		cancelReason                               *string
	)

	err := row.Scan(
		&id, &listingID, &lockerID, &buyerID, &sellerID,
		&itemPriceCents, &deliveryFeeCents, &status,
		&reservedAt, &paymentDeadline, &paidAt, &pickupScheduledAt,
		&riderPickedUpAt, &deliveredAt, &pickedUpAt, &expiresAt,
		&pinValue, &compartmentNumber, &cancelReason,
	)
	if err != nil {
		return nil, err
	}

	itemPrice, err := order.NewMoney(itemPriceCents)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := order.NewMoney(deliveryFeeCents)
	if err != nil {
		return nil, err
	}

	var pin order.PickupPin
	if pinValue != nil {
		pin, err = order.NewPickupPin(*pinValue)
		if err != nil {
			return nil, err
		}
	}

	return order.ReconstructOrder(
		id, listingID, lockerID, buyerID, sellerID,
		itemPrice, deliveryFee,
		order.Status(status),
		reservedAt, paymentDeadline,
		paidAt, pickupScheduledAt, riderPickedUpAt, deliveredAt, pickedUpAt, expiresAt,
		pin, compartmentNumber, cancelReason,
	), nil
}
