package queries

import (
	"context"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrInvalidRole   = errs.New("role must be buyer or seller")
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// OrderView is the full read model of an order. PickupPin is populated
// only when the requester is the buyer of a ready order.
type OrderView struct {
	ID                int64      `json:"id"`
	ListingID         int64      `json:"listing_id"`
	LockerID          int64      `json:"locker_id"`
	BuyerID           int64      `json:"buyer_id"`
	SellerID          int64      `json:"seller_id"`
	ItemPriceCents    int64      `json:"item_price_cents"`
	DeliveryFeeCents  int64      `json:"delivery_fee_cents"`
	TotalPriceCents   int64      `json:"total_price_cents"`
	Status            string     `json:"status"`
	ReservedAt        time.Time  `json:"reserved_at"`
	PaymentDeadline   time.Time  `json:"payment_deadline"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	PickupScheduledAt *time.Time `json:"pickup_scheduled_at,omitempty"`
	RiderPickedUpAt   *time.Time `json:"rider_picked_up_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	PickedUpAt        *time.Time `json:"picked_up_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	PickupPin         *string    `json:"pickup_pin,omitempty"`
	CompartmentNumber *int32     `json:"compartment_number,omitempty"`
	CancelReason      *string    `json:"cancel_reason,omitempty"`
}

type OrderListItem struct {
	ID              int64     `json:"id"`
	ListingID       int64     `json:"listing_id"`
	LockerID        int64     `json:"locker_id"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	ReservedAt      time.Time `json:"reserved_at"`
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id int64) (*OrderView, error)
	FindByBuyer(ctx context.Context, buyerID int64) ([]*OrderListItem, error)
	FindBySeller(ctx context.Context, sellerID int64) ([]*OrderListItem, error)
}

type OrderQueries interface {
	// GetByID hides the order entirely from non-participants.
	GetByID(ctx context.Context, actorID, id int64) (*OrderView, error)
	ListByUser(ctx context.Context, userID int64, role Role) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actorID, id int64) (*OrderView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if actorID != view.BuyerID && actorID != view.SellerID {
		return nil, ErrOrderNotFound
	}
	// The pin is the buyer's credential; the seller never sees it.
	if actorID != view.BuyerID {
		view.PickupPin = nil
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID int64, role Role) ([]*OrderListItem, error) {
	switch role {
	case RoleBuyer:
		return q.store.FindByBuyer(ctx, userID)
	case RoleSeller:
		return q.store.FindBySeller(ctx, userID)
	default:
		return nil, ErrInvalidRole
	}
}
