package commands

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/clock"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/config"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrListingNotFound         = errs.New("listing not found")
	ErrListingUnavailable      = errs.New("listing is not available")
	ErrSelfPurchase            = errs.New("cannot reserve your own listing")
	ErrLockerNotFound          = errs.New("locker not found")
	ErrNoCompartmentsAvailable = errs.New("no compartments available")
	ErrOrderNotFound           = errs.New("order not found")
	ErrOrderStateConflict      = errs.New("order state conflict")
	ErrActionNotAllowed        = errs.New("action not allowed for this user")
	ErrPinMismatch             = errs.New("pickup pin mismatch")
	ErrValidation              = errs.New("validation failed")
	ErrIdempotencyInProgress   = errs.New("request with this idempotency key is in progress")
	ErrIdempotencyConflict     = errs.New("idempotency key reused with different parameters")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReserveParams struct {
	ListingID int64
	LockerID  int64
	BuyerID   int64
}

type ReserveResult struct {
	Order    *order.Order
	Replayed bool
}

/// OrderCommands is the allocation engine: it owns every order state
// transition and the compartment accounting that goes with it. The expiry
// sweeper drives ExpireDue through the same code path as user actions.
type OrderCommands interface {
	Reserve(ctx context.Context, params ReserveParams, idempotencyKey uuid.UUID) (*ReserveResult, error)
	Pay(ctx context.Context, actorID, orderID int64) (*order.Order, error)
	SchedulePickup(ctx context.Context, actorID, orderID int64, pickupTime time.Time) (*order.Order, error)
	ConfirmPickup(ctx context.Context, actorID, orderID int64) (*order.Order, error)
	DeliverToLocker(ctx context.Context, orderID int64) (*order.Order, error)
	VerifyPin(ctx context.Context, actorID, orderID int64, pin string) (*order.Order, error)
	Cancel(ctx context.Context, actorID, orderID int64, reason string) (*order.Order, error)
	ExpireDue(ctx context.Context) (int, error)
}

type orderCommandsImpl struct {
	uow           shared.UnitOfWork
	notifier      shared.TransitionNotifier
	gamification  shared.GamificationService
	clock         clock.Clock
	paymentWindow time.Duration
	deliveryFee   order.Money
	sweepBatch    int32
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	notifier shared.TransitionNotifier,
	gamification shared.GamificationService,
	clk clock.Clock,
	cfg config.EngineConfig,
) OrderCommands {
	return &orderCommandsImpl{
		uow:           uow,
		notifier:      notifier,
		gamification:  gamification,
		clock:         clk,
		paymentWindow: cfg.PaymentWindow,
		deliveryFee:   order.MustMoney(cfg.DeliveryFeeCents),
		sweepBatch:    cfg.SweepBatchSize,
	}
}

func (c *orderCommandsImpl) Reserve(ctx context.Context, params ReserveParams, idempotencyKey uuid.UUID) (*ReserveResult, error) {
	requestHash := reserveRequestHash(params)
	expiresAt := c.clock.Now().Add(24 * time.Hour)

	var result ReserveResult
	var ev *order.TransitionEvent

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Idempotency().TryInsert(ctx, idempotencyKey, params.BuyerID, requestHash, expiresAt)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !inserted {
			replayed, err := c.replayReservation(ctx, tx, idempotencyKey, params.BuyerID, requestHash)
			if err != nil {
				return err
			}
			result = ReserveResult{Order: replayed, Replayed: true}
			return nil
		}

		created, err := c.createReservation(ctx, tx, params)
		if err != nil {
			return err
		}
		if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, params.BuyerID, created.ID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = ReserveResult{Order: created}
		ev = &order.TransitionEvent{
			Order:   created,
			To:      order.StatusPendingPayment,
			ActorID: params.BuyerID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ev != nil {
		c.notifier.Notify(*ev)
	}
	return &result, nil
}

// createReservation applies the reservation preconditions in order (first
// failure wins) and performs the compartment decrement, listing flip and
// order insert as one atomic unit.
func (c *orderCommandsImpl) createReservation(ctx context.Context, tx shared.Tx, params ReserveParams) (*order.Order, error) {
	listing, err := tx.Listings().FindByID(ctx, params.ListingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if listing.Status != shared.ListingActive {
		return nil, ErrListingUnavailable
	}
	if listing.SellerID == params.BuyerID {
		return nil, ErrSelfPurchase
	}

	if _, err := tx.Lockers().FindByID(ctx, params.LockerID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLockerNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	acquired, err := tx.Lockers().AcquireCompartment(ctx, params.LockerID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !acquired {
		return nil, ErrNoCompartmentsAvailable
	}

	reserved, err := tx.Listings().MarkReserved(ctx, params.ListingID, params.BuyerID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !reserved {
		// Lost the listing to a concurrent reservation after our earlier read.
		return nil, ErrListingUnavailable
	}

	itemPrice, err := order.NewMoney(listing.PriceCents)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	o, err := order.NewReservation(
		c.clock.Now(),
		params.ListingID, params.LockerID, params.BuyerID, listing.SellerID,
		itemPrice, c.deliveryFee,
		c.paymentWindow,
	)
	if err != nil {
		return nil, c.mapDomainErr(err)
	}

	id, err := tx.Orders().Create(ctx, o)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	o.SetID(id)
	return o, nil
}

func (c *orderCommandsImpl) replayReservation(ctx context.Context, tx shared.Tx, key uuid.UUID, buyerID int64, requestHash string) (*order.Order, error) {
	rec, err := tx.Idempotency().Get(ctx, key, buyerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Key exists for another user; to this caller it is a reuse.
			return nil, ErrIdempotencyConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if rec.RequestHash != requestHash {
		return nil, ErrIdempotencyConflict
	}
	if rec.Status != "completed" || rec.ResultOrderID == nil {
		return nil, ErrIdempotencyInProgress
	}

	o, err := tx.Orders().FindByID(ctx, *rec.ResultOrderID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return o, nil
}

func (c *orderCommandsImpl) Pay(ctx context.Context, actorID, orderID int64) (*order.Order, error) {
	return c.applyTransition(ctx, actorID, orderID, "pay for",
		func(o *order.Order, now time.Time) error {
			return o.Pay(actorID, now)
		}, nil)
}

func (c *orderCommandsImpl) SchedulePickup(ctx context.Context, actorID, orderID int64, pickupTime time.Time) (*order.Order, error) {
	return c.applyTransition(ctx, actorID, orderID, "schedule pickup for",
		func(o *order.Order, now time.Time) error {
			return o.Schedule(actorID, pickupTime, now)
		}, nil)
}

func (c *orderCommandsImpl) ConfirmPickup(ctx context.Context, actorID, orderID int64) (*order.Order, error) {
	o, err := c.applyTransition(ctx, actorID, orderID, "confirm pickup for",
		func(o *order.Order, now time.Time) error {
			return o.ConfirmPickup(actorID, now)
		}, nil)
	if err != nil {
		return nil, err
	}

	// The points balance lives in the gamification engine; a failure there
	// never unwinds the committed transition.
	if _, err := c.gamification.AwardPoints(ctx, o.SellerID(), shared.ActionSale); err != nil {
		slog.Warn("failed to award seller points", "order_id", o.ID(), "seller_id", o.SellerID(), "error", err.Error())
	}
	return o, nil
}

func (c *orderCommandsImpl) DeliverToLocker(ctx context.Context, orderID int64) (*order.Order, error) {
	return c.applyTransition(ctx, 0, orderID, "deliver",
		func(o *order.Order, now time.Time) error {
			return nil // applied in the hook, which needs locker capacity
		},
		func(ctx context.Context, tx shared.Tx, o *order.Order, _ order.Status, now time.Time) error {
			lk, err := tx.Lockers().FindByID(ctx, o.LockerID())
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			pin, err := order.GeneratePickupPin()
			if err != nil {
				return errs.Mark(err, ErrValidation)
			}
			compartment, err := randomCompartment(lk.TotalCompartments())
			if err != nil {
				return errs.Mark(err, ErrValidation)
			}
			return o.DeliverToLocker(now, compartment, pin)
		})
}

func (c *orderCommandsImpl) VerifyPin(ctx context.Context, actorID, orderID int64, pin string) (*order.Order, error) {
	if _, err := order.NewPickupPin(pin); err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	return c.applyTransition(ctx, actorID, orderID, "verify pin for",
		func(o *order.Order, now time.Time) error {
			return o.VerifyPin(actorID, pin, now)
		},
		func(ctx context.Context, tx shared.Tx, o *order.Order, _ order.Status, _ time.Time) error {
			if err := tx.Listings().MarkCompleted(ctx, o.ListingID()); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		})
}

func (c *orderCommandsImpl) Cancel(ctx context.Context, actorID, orderID int64, reason string) (*order.Order, error) {
	return c.applyTransitionWithRelease(ctx, actorID, orderID, "cancel",
		func(o *order.Order, now time.Time) error {
			return o.Cancel(actorID, reason, now)
		})
}

// ExpireDue is one sweep pass: every pending_payment order past its
// deadline is forced to expired through the regular transition primitive.
// Orders that reached a terminal state between the scan and the
// transition are skipped silently; the sweep and user actions race
// legitimately.
func (c *orderCommandsImpl) ExpireDue(ctx context.Context) (int, error) {
	var due []int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids, err := tx.Orders().ListDuePendingPayment(ctx, c.clock.Now(), c.sweepBatch)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		due = ids
		return nil
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range due {
		if _, err := c.expireOne(ctx, id); err != nil {
			if errors.Is(err, ErrOrderStateConflict) || errors.Is(err, ErrOrderNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (c *orderCommandsImpl) expireOne(ctx context.Context, orderID int64) (*order.Order, error) {
	return c.applyTransitionWithRelease(ctx, 0, orderID, "expire",
		func(o *order.Order, now time.Time) error {
			return o.Expire(now)
		})
}

// applyTransition runs one CAS-guarded state transition: load, apply the
// domain edge, persist iff the stored status is unchanged, then hand the
// committed event to the dispatcher.
func (c *orderCommandsImpl) applyTransition(
	ctx context.Context,
	actorID, orderID int64,
	action string,
	apply func(o *order.Order, now time.Time) error,
	hook func(ctx context.Context, tx shared.Tx, o *order.Order, from order.Status, now time.Time) error,
) (*order.Order, error) {
	var result *order.Order
	var ev order.TransitionEvent

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := c.loadAccessible(ctx, tx, actorID, orderID)
		if err != nil {
			return err
		}

		from := o.Status()
		now := c.clock.Now()
		if err := apply(o, now); err != nil {
			return c.mapDomainErr(err)
		}
		if hook != nil {
			if err := hook(ctx, tx, o, from, now); err != nil {
				return c.mapDomainErr(err)
			}
		}

		ok, err := tx.Orders().UpdateFrom(ctx, o, from)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !ok {
			return c.lostRaceErr(ctx, tx, orderID, action)
		}

		result = o
		ev = order.TransitionEvent{Order: o, From: from, To: o.Status(), ActorID: actorID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(ev)
	return result, nil
}

// applyTransitionWithRelease is applyTransition plus the terminal-state
// resource bookkeeping shared by cancel and expire: the compartment claim
// goes back to the locker when one was still held, and the listing
// returns to active unless it has moved on.
func (c *orderCommandsImpl) applyTransitionWithRelease(
	ctx context.Context,
	actorID, orderID int64,
	action string,
	apply func(o *order.Order, now time.Time) error,
) (*order.Order, error) {
	return c.applyTransition(ctx, actorID, orderID, action, apply,
		func(ctx context.Context, tx shared.Tx, o *order.Order, from order.Status, _ time.Time) error {
			// The compartment claim is judged by the state the order came
			// from: once the parcel is physically loaded the slot stays
			// occupied until hardware removal, so no counter increment.
			if from.HoldsCompartment() {
				if err := tx.Lockers().ReleaseCompartment(ctx, o.LockerID()); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			}
			if err := tx.Listings().ReleaseToActive(ctx, o.ListingID()); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		})
}

func (c *orderCommandsImpl) loadAccessible(ctx context.Context, tx shared.Tx, actorID, orderID int64) (*order.Order, error) {
	o, err := tx.Orders().FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	// Unrelated callers are told the order does not exist rather than
	// forbidden, so order ids leak nothing. actorID 0 is the system.
	if actorID != 0 && !o.AccessibleBy(actorID) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (c *orderCommandsImpl) lostRaceErr(ctx context.Context, tx shared.Tx, orderID int64, action string) error {
	current, err := tx.Orders().FindByID(ctx, orderID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	stateErr := &order.StateError{Action: action, Current: current.Status()}
	return errs.Mark(stateErr, ErrOrderStateConflict)
}

func (c *orderCommandsImpl) mapDomainErr(err error) error {
	var stateErr *order.StateError
	switch {
	case errors.As(err, &stateErr):
		return errs.Mark(err, ErrOrderStateConflict)
	case errors.Is(err, order.ErrNotBuyer), errors.Is(err, order.ErrNotSeller):
		return errs.Mark(err, ErrActionNotAllowed)
	case errors.Is(err, order.ErrPinMismatch):
		return errs.Mark(err, ErrPinMismatch)
	case errors.Is(err, order.ErrSelfPurchase):
		return errs.Mark(err, ErrSelfPurchase)
	case errors.Is(err, order.ErrEmptyCancelReason),
		errors.Is(err, order.ErrPickupTimeInPast),
		errors.Is(err, order.ErrInvalidPin),
		errors.Is(err, order.ErrInvalidCompartment):
		return errs.Mark(err, ErrValidation)
	case errors.Is(err, order.ErrDeadlineNotElapsed):
		return errs.Mark(err, ErrOrderStateConflict)
	default:
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
}

func reserveRequestHash(params ReserveParams) string {
	payload := fmt.Sprintf("reserve:%d:%d:%d", params.ListingID, params.LockerID, params.BuyerID)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// randomCompartment stands in for the hardware slot assignment the locker
// station reports on load.
func randomCompartment(total int32) (int32, error) {
	if total <= 0 {
		return 0, order.ErrInvalidCompartment
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(total)))
	if err != nil {
		return 0, fmt.Errorf("failed to pick compartment: %w", err)
	}
	return int32(n.Int64()) + 1, nil
}
