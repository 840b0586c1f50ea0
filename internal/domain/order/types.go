package order

// Status is the state-machine discriminant of an order. Transitions only
// move forward along the success path or branch into a terminal state.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusPickupScheduled Status = "pickup_scheduled"
	StatusInTransit      Status = "in_transit"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusCollected      Status = "collected"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusPickupScheduled,
		StatusInTransit, StatusReadyForPickup, StatusCollected,
		StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCollected, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Status) IsCancellable() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusPickupScheduled,
		StatusInTransit, StatusReadyForPickup:
		return true
	default:
		return false
	}
}

// HoldsCompartment reports whether an order in this status still holds a
// compartment claim that must be returned to the locker counter on release.
// Once the parcel is physically loaded (ready_for_pickup and later) the
// compartment is occupied and reclaimed by hardware removal, not by the
// availability counter.
func (s Status) HoldsCompartment() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusPickupScheduled, StatusInTransit:
		return true
	default:
		return false
	}
}
