package response

import (
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"
)

type OrderResponse struct {
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

// FromOrderEntity renders a freshly transitioned order. The pickup pin
// is never included here; the buyer reads it from the order detail
// endpoint or the ready-for-pickup notification.
func FromOrderEntity(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:                o.ID(),
		ListingID:         o.ListingID(),
		LockerID:          o.LockerID(),
		BuyerID:           o.BuyerID(),
		SellerID:          o.SellerID(),
		ItemPriceCents:    o.ItemPrice().Cents(),
		DeliveryFeeCents:  o.DeliveryFee().Cents(),
		TotalPriceCents:   o.TotalPrice().Cents(),
		Status:            string(o.Status()),
		ReservedAt:        o.ReservedAt(),
		PaymentDeadline:   o.PaymentDeadline(),
		PaidAt:            o.PaidAt(),
		PickupScheduledAt: o.PickupScheduledAt(),
		RiderPickedUpAt:   o.RiderPickedUpAt(),
		DeliveredAt:       o.DeliveredAt(),
		PickedUpAt:        o.PickedUpAt(),
		ExpiresAt:         o.ExpiresAt(),
		CompartmentNumber: o.CompartmentNumber(),
		CancelReason:      o.CancelReason(),
	}
}

// FromOrderView renders the read model; pin redaction for non-buyers
// already happened in the query layer.
func FromOrderView(v *queries.OrderView) *OrderResponse {
	return &OrderResponse{
		ID:                v.ID,
		ListingID:         v.ListingID,
		LockerID:          v.LockerID,
		BuyerID:           v.BuyerID,
		SellerID:          v.SellerID,
		ItemPriceCents:    v.ItemPriceCents,
		DeliveryFeeCents:  v.DeliveryFeeCents,
		TotalPriceCents:   v.TotalPriceCents,
		Status:            v.Status,
		ReservedAt:        v.ReservedAt,
		PaymentDeadline:   v.PaymentDeadline,
		PaidAt:            v.PaidAt,
		PickupScheduledAt: v.PickupScheduledAt,
		RiderPickedUpAt:   v.RiderPickedUpAt,
		DeliveredAt:       v.DeliveredAt,
		PickedUpAt:        v.PickedUpAt,
		ExpiresAt:         v.ExpiresAt,
		PickupPin:         v.PickupPin,
		CompartmentNumber: v.CompartmentNumber,
		CancelReason:      v.CancelReason,
	}
}

type OrderListResponse struct {
	ID              int64     `json:"id"`
	ListingID       int64     `json:"listing_id"`
	LockerID        int64     `json:"locker_id"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	ReservedAt      time.Time `json:"reserved_at"`
}

func FromOrderListItem(item *queries.OrderListItem) *OrderListResponse {
	return &OrderListResponse{
		ID:              item.ID,
		ListingID:       item.ListingID,
		LockerID:        item.LockerID,
		Status:          item.Status,
		TotalPriceCents: item.TotalPriceCents,
		ReservedAt:      item.ReservedAt,
	}
}
