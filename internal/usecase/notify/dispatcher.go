package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/clock"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"
)

// Notification types are a closed set; clients key icons and deep links
// off these tags.
const (
	TypePaymentReminder = "payment_reminder"
	TypePickupScheduled = "pickup_scheduled"
	TypeItemInTransit   = "item_in_transit"
	TypeReadyForPickup  = "ready_for_pickup"
	TypePointsEarned    = "points_earned"
	TypeOrderCancelled  = "order_cancelled"
	TypeOrderExpired    = "order_expired"
)

const dispatchTimeout = 10 * time.Second

// Dispatcher fans a committed transition out to the two parties. Both the
// notification record and the push are best-effort: a failure is logged
// and never reaches the transition that produced the event.
type Dispatcher struct {
	repo      shared.NotificationRepository
	transport shared.NotificationTransport
	clock     clock.Clock
}

func NewDispatcher(repo shared.NotificationRepository, transport shared.NotificationTransport, clk clock.Clock) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		transport: transport,
		clock:     clk,
	}
}

// Notify implements shared.TransitionNotifier. Fan-out runs on its own
// goroutine so a slow transport cannot block the request path.
func (d *Dispatcher) Notify(event order.TransitionEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		d.Dispatch(ctx, event)
	}()
}

func (d *Dispatcher) Dispatch(ctx context.Context, event order.TransitionEvent) {
	for _, n := range MessagesFor(event) {
		if _, err := d.repo.Create(ctx, n, d.clock.Now()); err != nil {
			slog.Warn("failed to persist notification",
				"order_id", n.OrderID, "user_id", n.UserID, "type", n.Type, "error", err.Error())
		}
		if err := d.transport.Push(ctx, n.UserID, n.Type, n.Title, n.Message); err != nil {
			slog.Warn("failed to push notification",
				"order_id", n.OrderID, "user_id", n.UserID, "type", n.Type, "error", err.Error())
		}
	}
}

// MessagesFor maps one transition to the fixed (recipient, type, title,
// message) tuples it produces. Pure; transitions without user-facing copy
// yield nothing.
func MessagesFor(event order.TransitionEvent) []shared.NewNotification {
	o := event.Order

	switch event.To {
	case order.StatusPendingPayment:
		return []shared.NewNotification{{
			UserID:  o.BuyerID(),
			OrderID: o.ID(),
			Type:    TypePaymentReminder,
			Title:   "Complete your payment",
			Message: fmt.Sprintf("Your compartment is held for order #%d. Pay %.2f by %s or the reservation expires.",
				o.ID(), o.TotalPrice().Dollars(), o.PaymentDeadline().Format("15:04")),
		}}

	case order.StatusPickupScheduled:
		msg := fmt.Sprintf("Courier pickup for order #%d has been scheduled.", o.ID())
		if t := o.PickupScheduledAt(); t != nil {
			msg = fmt.Sprintf("Courier pickup for order #%d is scheduled for %s.",
				o.ID(), t.Format("Jan 2 15:04"))
		}
		return []shared.NewNotification{{
			UserID:  o.BuyerID(),
			OrderID: o.ID(),
			Type:    TypePickupScheduled,
			Title:   "Pickup scheduled",
			Message: msg,
		}}

	case order.StatusInTransit:
		return []shared.NewNotification{
			{
				UserID:  o.BuyerID(),
				OrderID: o.ID(),
				Type:    TypeItemInTransit,
				Title:   "Your item is on its way",
				Message: fmt.Sprintf("The courier has picked up order #%d and is heading to the locker.", o.ID()),
			},
			{
				UserID:  o.SellerID(),
				OrderID: o.ID(),
				Type:    TypePointsEarned,
				Title:   "Points earned",
				// The amount belongs to the gamification engine and may
				// change independently of this copy; never embed it here.
				Message: fmt.Sprintf("You earned points for the sale on order #%d.", o.ID()),
			},
		}

	case order.StatusReadyForPickup:
		msg := fmt.Sprintf("Order #%d is waiting in the locker.", o.ID())
		if cn := o.CompartmentNumber(); cn != nil {
			msg = fmt.Sprintf("Order #%d is waiting in compartment %d. Your pickup PIN is %s.",
				o.ID(), *cn, o.PickupPin().String())
		}
		return []shared.NewNotification{{
			UserID:  o.BuyerID(),
			OrderID: o.ID(),
			Type:    TypeReadyForPickup,
			Title:   "Ready for pickup",
			Message: msg,
		}}

	case order.StatusCancelled:
		reason := ""
		if r := o.CancelReason(); r != nil {
			reason = " Reason: " + *r
		}
		return notifyBoth(o, TypeOrderCancelled, "Order cancelled",
			fmt.Sprintf("Order #%d has been cancelled.%s", o.ID(), reason))

	case order.StatusExpired:
		return notifyBoth(o, TypeOrderExpired, "Order expired",
			fmt.Sprintf("Order #%d expired because payment was not completed in time.", o.ID()))

	default:
		return nil
	}
}

func notifyBoth(o *order.Order, notifType, title, message string) []shared.NewNotification {
	return []shared.NewNotification{
		{UserID: o.BuyerID(), OrderID: o.ID(), Type: notifType, Title: title, Message: message},
		{UserID: o.SellerID(), OrderID: o.ID(), Type: notifType, Title: title, Message: message},
	}
}
