package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSelfPurchase       = errors.New("buyer and seller must differ")
	ErrNotBuyer           = errors.New("only the buyer may perform this action")
	ErrNotSeller          = errors.New("only the seller may perform this action")
	ErrEmptyCancelReason  = errors.New("cancel reason must not be empty")
	ErrPinMismatch        = errors.New("pickup pin does not match")
	ErrPickupTimeInPast   = errors.New("pickup time must be in the future")
	ErrDeadlineNotElapsed = errors.New("payment deadline has not elapsed")
	ErrInvalidCompartment = errors.New("compartment number must be positive")
)

// StateError rejects a transition attempted from the wrong state. The
// message names the actual current status so callers can tell "already
// done" apart from "not there yet".
type StateError struct {
	Action  string
	Current Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s order with status: %s", e.Action, e.Current)
}

type Order struct {
	id       int64
	listingID int64
	lockerID int64
	buyerID  int64
	sellerID int64

	itemPrice   Money
	deliveryFee Money

	status Status

	reservedAt        time.Time
	paymentDeadline   time.Time
	paidAt            *time.Time
	pickupScheduledAt *time.Time
	riderPickedUpAt   *time.Time
	deliveredAt       *time.Time
	pickedUpAt        *time.Time
	expiresAt         *time.Time

	pickupPin         PickupPin
	compartmentNumber *int32
	cancelReason      *string
}

// NewReservation creates the order in pending_payment with the payment
// deadline derived from the reservation time.
func NewReservation(
	now time.Time,
	listingID, lockerID, buyerID, sellerID int64,
	itemPrice, deliveryFee Money,
	paymentWindow time.Duration,
) (*Order, error) {
	if buyerID == sellerID {
		return nil, ErrSelfPurchase
	}

	deadline := now.Add(paymentWindow)
	return &Order{
		listingID:       listingID,
		lockerID:        lockerID,
		buyerID:         buyerID,
		sellerID:        sellerID,
		itemPrice:       itemPrice,
		deliveryFee:     deliveryFee,
		status:          StatusPendingPayment,
		reservedAt:      now,
		paymentDeadline: deadline,
	}, nil
}

func ReconstructOrder(
	id, listingID, lockerID, buyerID, sellerID int64,
	itemPrice, deliveryFee Money,
	status Status,
	reservedAt, paymentDeadline time.Time,
	paidAt, pickupScheduledAt, riderPickedUpAt, deliveredAt, pickedUpAt, expiresAt *time.Time,
	pickupPin PickupPin,
	compartmentNumber *int32,
	cancelReason *string,
) *Order {
	return &Order{
		id:                id,
		listingID:         listingID,
		lockerID:          lockerID,
		buyerID:           buyerID,
		sellerID:          sellerID,
		itemPrice:         itemPrice,
		deliveryFee:       deliveryFee,
		status:            status,
		reservedAt:        reservedAt,
		paymentDeadline:   paymentDeadline,
		paidAt:            paidAt,
		pickupScheduledAt: pickupScheduledAt,
		riderPickedUpAt:   riderPickedUpAt,
		deliveredAt:       deliveredAt,
		pickedUpAt:        pickedUpAt,
		expiresAt:         expiresAt,
		pickupPin:         pickupPin,
		compartmentNumber: compartmentNumber,
		cancelReason:      cancelReason,
	}
}

func (o *Order) ID() int64                    { return o.id }
func (o *Order) ListingID() int64             { return o.listingID }
func (o *Order) LockerID() int64              { return o.lockerID }
func (o *Order) BuyerID() int64               { return o.buyerID }
func (o *Order) SellerID() int64              { return o.sellerID }
func (o *Order) ItemPrice() Money             { return o.itemPrice }
func (o *Order) DeliveryFee() Money           { return o.deliveryFee }
func (o *Order) TotalPrice() Money            { return o.itemPrice.Add(o.deliveryFee) }
func (o *Order) Status() Status               { return o.status }
func (o *Order) ReservedAt() time.Time        { return o.reservedAt }
func (o *Order) PaymentDeadline() time.Time   { return o.paymentDeadline }
func (o *Order) PaidAt() *time.Time           { return o.paidAt }
func (o *Order) PickupScheduledAt() *time.Time { return o.pickupScheduledAt }
func (o *Order) RiderPickedUpAt() *time.Time  { return o.riderPickedUpAt }
func (o *Order) DeliveredAt() *time.Time      { return o.deliveredAt }
func (o *Order) PickedUpAt() *time.Time       { return o.pickedUpAt }
func (o *Order) ExpiresAt() *time.Time        { return o.expiresAt }
func (o *Order) PickupPin() PickupPin         { return o.pickupPin }
func (o *Order) CompartmentNumber() *int32    { return o.compartmentNumber }
func (o *Order) CancelReason() *string        { return o.cancelReason }

// SetID is called once by the repository after the insert assigns the key.
func (o *Order) SetID(id int64) {
	if o.id == 0 {
		o.id = id
	}
}

// AccessibleBy reports whether the given user is a participant. Callers
// treat orders as nonexistent for anyone else.
func (o *Order) AccessibleBy(userID int64) bool {
	return userID == o.buyerID || userID == o.sellerID
}

func (o *Order) requireBuyer(actorID int64) error {
	if actorID != o.buyerID {
		return ErrNotBuyer
	}
	return nil
}

func (o *Order) requireSeller(actorID int64) error {
	if actorID != o.sellerID {
		return ErrNotSeller
	}
	return nil
}

// Pay marks the reservation as paid by the buyer.
func (o *Order) Pay(actorID int64, now time.Time) error {
	if err := o.requireBuyer(actorID); err != nil {
		return err
	}
	if o.status != StatusPendingPayment {
		return &StateError{Action: "pay for", Current: o.status}
	}
	o.status = StatusPaid
	o.paidAt = &now
	return nil
}

// Schedule records the courier pickup time chosen by the seller.
func (o *Order) Schedule(actorID int64, pickupTime, now time.Time) error {
	if err := o.requireSeller(actorID); err != nil {
		return err
	}
	if o.status != StatusPaid {
		return &StateError{Action: "schedule pickup for", Current: o.status}
	}
	if !pickupTime.After(now) {
		return ErrPickupTimeInPast
	}
	o.status = StatusPickupScheduled
	o.pickupScheduledAt = &pickupTime
	return nil
}

// ConfirmPickup marks the parcel as handed to the courier. Scheduling is
// optional, so paid is also an accepted source state.
func (o *Order) ConfirmPickup(actorID int64, now time.Time) error {
	if err := o.requireSeller(actorID); err != nil {
		return err
	}
	if o.status != StatusPaid && o.status != StatusPickupScheduled {
		return &StateError{Action: "confirm pickup for", Current: o.status}
	}
	o.status = StatusInTransit
	o.riderPickedUpAt = &now
	return nil
}

// DeliverToLocker loads the parcel into a compartment and arms the pickup
// pin. Invoked by the courier flow, not by either party.
func (o *Order) DeliverToLocker(now time.Time, compartmentNumber int32, pin PickupPin) error {
	if o.status != StatusInTransit {
		return &StateError{Action: "deliver", Current: o.status}
	}
	if compartmentNumber <= 0 {
		return ErrInvalidCompartment
	}
	if !pin.IsSet() {
		return ErrInvalidPin
	}
	o.status = StatusReadyForPickup
	o.deliveredAt = &now
	o.compartmentNumber = &compartmentNumber
	o.pickupPin = pin
	return nil
}

// VerifyPin completes the order when the buyer presents the correct pin.
// A mismatch leaves the order untouched; the buyer may retry.
func (o *Order) VerifyPin(actorID int64, candidate string, now time.Time) error {
	if err := o.requireBuyer(actorID); err != nil {
		return err
	}
	if o.status != StatusReadyForPickup {
		return &StateError{Action: "verify pin for", Current: o.status}
	}
	if !o.pickupPin.Matches(candidate) {
		return ErrPinMismatch
	}
	o.status = StatusCollected
	o.pickedUpAt = &now
	return nil
}

// Cancel is available to either participant from any non-terminal state.
// The caller has already established that actorID is a participant.
func (o *Order) Cancel(actorID int64, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyCancelReason
	}
	if !o.status.IsCancellable() {
		return &StateError{Action: "cancel", Current: o.status}
	}
	trimmed := strings.TrimSpace(reason)
	o.status = StatusCancelled
	o.cancelReason = &trimmed
	return nil
}

// Expire is the sweeper-only transition for reservations whose payment
// deadline elapsed before the buyer paid.
func (o *Order) Expire(now time.Time) error {
	if o.status != StatusPendingPayment {
		return &StateError{Action: "expire", Current: o.status}
	}
	if !now.After(o.paymentDeadline) {
		return ErrDeadlineNotElapsed
	}
	o.status = StatusExpired
	o.expiresAt = &now
	return nil
}
