package order_test

import (
	"testing"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	buyerID  int64 = 10
	sellerID int64 = 20
	otherID  int64 = 99
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newReservation(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewReservation(
		base, 1, 2, buyerID, sellerID,
		order.MustMoney(1000), order.MustMoney(200),
		30*time.Minute,
	)
	require.NoError(t, err)
	o.SetID(77)
	return o
}

func mustPin(t *testing.T, value string) order.PickupPin {
	t.Helper()
	pin, err := order.NewPickupPin(value)
	require.NoError(t, err)
	return pin
}

func TestNewReservation(t *testing.T) {
	t.Run("sets pending status and payment deadline", func(t *testing.T) {
		o := newReservation(t)

		assert.Equal(t, order.StatusPendingPayment, o.Status())
		assert.Equal(t, base, o.ReservedAt())
		assert.Equal(t, base.Add(30*time.Minute), o.PaymentDeadline())
		assert.Equal(t, int64(1200), o.TotalPrice().Cents())
		assert.InDelta(t, 12.00, o.TotalPrice().Dollars(), 0.001)
		assert.Nil(t, o.PaidAt())
		assert.False(t, o.PickupPin().IsSet())
	})

	t.Run("rejects buyer reserving own listing", func(t *testing.T) {
		_, err := order.NewReservation(
			base, 1, 2, sellerID, sellerID,
			order.MustMoney(1000), order.MustMoney(200),
			30*time.Minute,
		)
		require.ErrorIs(t, err, order.ErrSelfPurchase)
	})
}

func TestLifecycleHappyPath(t *testing.T) {
	o := newReservation(t)
	pin := mustPin(t, "123456")

	paidAt := base.Add(5 * time.Minute)
	require.NoError(t, o.Pay(buyerID, paidAt))
	assert.Equal(t, order.StatusPaid, o.Status())
	require.NotNil(t, o.PaidAt())
	assert.Equal(t, paidAt, *o.PaidAt())

	pickupTime := base.Add(2 * time.Hour)
	require.NoError(t, o.Schedule(sellerID, pickupTime, paidAt))
	assert.Equal(t, order.StatusPickupScheduled, o.Status())
	require.NotNil(t, o.PickupScheduledAt())
	assert.Equal(t, pickupTime, *o.PickupScheduledAt())

	transitAt := base.Add(3 * time.Hour)
	require.NoError(t, o.ConfirmPickup(sellerID, transitAt))
	assert.Equal(t, order.StatusInTransit, o.Status())
	require.NotNil(t, o.RiderPickedUpAt())

	deliveredAt := base.Add(4 * time.Hour)
	require.NoError(t, o.DeliverToLocker(deliveredAt, 3, pin))
	assert.Equal(t, order.StatusReadyForPickup, o.Status())
	require.NotNil(t, o.CompartmentNumber())
	assert.Equal(t, int32(3), *o.CompartmentNumber())
	assert.True(t, o.PickupPin().IsSet())

	collectedAt := base.Add(5 * time.Hour)
	require.NoError(t, o.VerifyPin(buyerID, "123456", collectedAt))
	assert.Equal(t, order.StatusCollected, o.Status())
	require.NotNil(t, o.PickedUpAt())
	assert.Equal(t, collectedAt, *o.PickedUpAt())
	assert.True(t, o.Status().IsTerminal())
}

func TestPay(t *testing.T) {
	t.Run("only the buyer may pay", func(t *testing.T) {
		o := newReservation(t)
		require.ErrorIs(t, o.Pay(sellerID, base), order.ErrNotBuyer)
		require.ErrorIs(t, o.Pay(otherID, base), order.ErrNotBuyer)
		assert.Equal(t, order.StatusPendingPayment, o.Status())
	})

	t.Run("second payment names the current status", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))

		err := o.Pay(buyerID, base)
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, order.StatusPaid, stateErr.Current)
		assert.Equal(t, "cannot pay for order with status: paid", err.Error())
	})
}

func TestSchedule(t *testing.T) {
	t.Run("only the seller may schedule", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))
		require.ErrorIs(t, o.Schedule(buyerID, base.Add(time.Hour), base), order.ErrNotSeller)
	})

	t.Run("rejects unpaid order", func(t *testing.T) {
		o := newReservation(t)
		err := o.Schedule(sellerID, base.Add(time.Hour), base)
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, order.StatusPendingPayment, stateErr.Current)
	})

	t.Run("rejects pickup time not in the future", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))
		require.ErrorIs(t, o.Schedule(sellerID, base, base), order.ErrPickupTimeInPast)
		require.ErrorIs(t, o.Schedule(sellerID, base.Add(-time.Minute), base), order.ErrPickupTimeInPast)
	})
}

func TestConfirmPickup(t *testing.T) {
	t.Run("scheduling is optional", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))
		require.NoError(t, o.ConfirmPickup(sellerID, base.Add(time.Hour)))
		assert.Equal(t, order.StatusInTransit, o.Status())
		assert.Nil(t, o.PickupScheduledAt())
	})

	t.Run("rejects pending order", func(t *testing.T) {
		o := newReservation(t)
		err := o.ConfirmPickup(sellerID, base)
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("only the seller may confirm", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))
		require.ErrorIs(t, o.ConfirmPickup(buyerID, base), order.ErrNotSeller)
	})
}

func TestDeliverToLocker(t *testing.T) {
	inTransit := func(t *testing.T) *order.Order {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))
		require.NoError(t, o.ConfirmPickup(sellerID, base))
		return o
	}

	t.Run("rejects before transit", func(t *testing.T) {
		o := newReservation(t)
		err := o.DeliverToLocker(base, 1, mustPin(t, "654321"))
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, "cannot deliver order with status: pending_payment", err.Error())
	})

	t.Run("rejects non-positive compartment", func(t *testing.T) {
		o := inTransit(t)
		require.ErrorIs(t, o.DeliverToLocker(base, 0, mustPin(t, "654321")), order.ErrInvalidCompartment)
	})

	t.Run("rejects unset pin", func(t *testing.T) {
		o := inTransit(t)
		require.ErrorIs(t, o.DeliverToLocker(base, 1, order.PickupPin{}), order.ErrInvalidPin)
	})
}

func TestVerifyPin(t *testing.T) {
	readyOrder := func(t *testing.T) *order.Order {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))
		require.NoError(t, o.ConfirmPickup(sellerID, base))
		require.NoError(t, o.DeliverToLocker(base, 3, mustPin(t, "123456")))
		return o
	}

	t.Run("mismatch leaves the order collectible", func(t *testing.T) {
		o := readyOrder(t)
		require.ErrorIs(t, o.VerifyPin(buyerID, "000000", base), order.ErrPinMismatch)
		assert.Equal(t, order.StatusReadyForPickup, o.Status())
		assert.Nil(t, o.PickedUpAt())

		// retry with the right pin succeeds
		require.NoError(t, o.VerifyPin(buyerID, "123456", base))
		assert.Equal(t, order.StatusCollected, o.Status())
	})

	t.Run("only the buyer may collect", func(t *testing.T) {
		o := readyOrder(t)
		require.ErrorIs(t, o.VerifyPin(sellerID, "123456", base), order.ErrNotBuyer)
	})

	t.Run("rejects before delivery", func(t *testing.T) {
		o := newReservation(t)
		err := o.VerifyPin(buyerID, "123456", base)
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
	})
}

func TestCancel(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		o := newReservation(t)
		require.ErrorIs(t, o.Cancel(buyerID, "", base), order.ErrEmptyCancelReason)
		require.ErrorIs(t, o.Cancel(buyerID, "   ", base), order.ErrEmptyCancelReason)
	})

	t.Run("trims the reason", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Cancel(buyerID, "  changed my mind  ", base))
		require.NotNil(t, o.CancelReason())
		assert.Equal(t, "changed my mind", *o.CancelReason())
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("allowed from every cancellable state", func(t *testing.T) {
		for _, setup := range []struct {
			name string
			prep func(*order.Order)
		}{
			{"pending_payment", func(_ *order.Order) {}},
			{"paid", func(o *order.Order) {
				require.NoError(t, o.Pay(buyerID, base))
			}},
			{"ready_for_pickup", func(o *order.Order) {
				require.NoError(t, o.Pay(buyerID, base))
				require.NoError(t, o.ConfirmPickup(sellerID, base))
				require.NoError(t, o.DeliverToLocker(base, 1, mustPin(t, "123456")))
			}},
		} {
			t.Run(setup.name, func(t *testing.T) {
				o := newReservation(t)
				setup.prep(o)
				require.NoError(t, o.Cancel(sellerID, "seller backed out", base))
				assert.Equal(t, order.StatusCancelled, o.Status())
			})
		}
	})

	t.Run("rejects terminal order", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Cancel(buyerID, "first", base))

		err := o.Cancel(buyerID, "second", base)
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, order.StatusCancelled, stateErr.Current)
	})
}

func TestExpire(t *testing.T) {
	t.Run("rejects before the deadline", func(t *testing.T) {
		o := newReservation(t)
		require.ErrorIs(t, o.Expire(o.PaymentDeadline()), order.ErrDeadlineNotElapsed)
	})

	t.Run("expires after the deadline", func(t *testing.T) {
		o := newReservation(t)
		at := o.PaymentDeadline().Add(time.Second)
		require.NoError(t, o.Expire(at))
		assert.Equal(t, order.StatusExpired, o.Status())
		require.NotNil(t, o.ExpiresAt())
		assert.Equal(t, at, *o.ExpiresAt())
	})

	t.Run("rejects paid order", func(t *testing.T) {
		o := newReservation(t)
		require.NoError(t, o.Pay(buyerID, base))

		err := o.Expire(o.PaymentDeadline().Add(time.Hour))
		var stateErr *order.StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, order.StatusPaid, stateErr.Current)
	})
}

func TestAccessibleBy(t *testing.T) {
	o := newReservation(t)
	assert.True(t, o.AccessibleBy(buyerID))
	assert.True(t, o.AccessibleBy(sellerID))
	assert.False(t, o.AccessibleBy(otherID))
}

func TestSetID(t *testing.T) {
	o, err := order.NewReservation(
		base, 1, 2, buyerID, sellerID,
		order.MustMoney(1000), order.MustMoney(200),
		30*time.Minute,
	)
	require.NoError(t, err)

	o.SetID(5)
	o.SetID(6) // ignored once assigned
	assert.Equal(t, int64(5), o.ID())
}
