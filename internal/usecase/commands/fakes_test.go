package commands_test

import (
	"context"
	"sync"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/locker"
	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"

	"github.com/google/uuid"
)

// The fakes model the persistence contract in memory: every Within call
// works on a copy of the state and the copy replaces the original only on
// success, mirroring transaction rollback. A single mutex serializes
// transactions the way row locks serialize the guarded updates.

type lockerRow struct {
	id        int64
	status    string
	total     int32
	available int32
}

type idemKey struct {
	key    uuid.UUID
	userID int64
}

type fakeState struct {
	listings    map[int64]shared.ListingSnapshot
	lockers     map[int64]lockerRow
	orders      map[int64]*order.Order
	idem        map[idemKey]shared.IdempotencyRecord
	nextOrderID int64
}

func newFakeState() *fakeState {
	return &fakeState{
		listings:    make(map[int64]shared.ListingSnapshot),
		lockers:     make(map[int64]lockerRow),
		orders:      make(map[int64]*order.Order),
		idem:        make(map[idemKey]shared.IdempotencyRecord),
		nextOrderID: 1,
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextOrderID = s.nextOrderID
	for k, v := range s.listings {
		c.listings[k] = v
	}
	for k, v := range s.lockers {
		c.lockers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range s.idem {
		c.idem[k] = v
	}
	return c
}

func cloneOrder(o *order.Order) *order.Order {
	return order.ReconstructOrder(
		o.ID(), o.ListingID(), o.LockerID(), o.BuyerID(), o.SellerID(),
		o.ItemPrice(), o.DeliveryFee(), o.Status(),
		o.ReservedAt(), o.PaymentDeadline(),
		cloneTime(o.PaidAt()), cloneTime(o.PickupScheduledAt()), cloneTime(o.RiderPickedUpAt()),
		cloneTime(o.DeliveredAt()), cloneTime(o.PickedUpAt()), cloneTime(o.ExpiresAt()),
		o.PickupPin(), cloneInt32(o.CompartmentNumber()), cloneString(o.CancelReason()),
	)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt32(n *int32) *int32 {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

type fakeUoW struct {
	mu sync.Mutex
	st *fakeState
}

func newFakeUoW(st *fakeState) *fakeUoW {
	return &fakeUoW{st: st}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	work := u.st.clone()
	if err := fn(ctx, &fakeTx{st: work}); err != nil {
		return err
	}
	u.st = work
	return nil
}

// snapshot returns a consistent copy for assertions outside a transaction.
func (u *fakeUoW) snapshot() *fakeState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.st.clone()
}

type fakeTx struct {
	st *fakeState
}

func (t *fakeTx) Orders() shared.OrderRepository           { return &fakeOrderRepo{st: t.st} }
func (t *fakeTx) Lockers() shared.LockerRepository         { return &fakeLockerRepo{st: t.st} }
func (t *fakeTx) Listings() shared.ListingStore            { return &fakeListingStore{st: t.st} }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository { return &fakeIdemRepo{st: t.st} }

type fakeOrderRepo struct {
	st *fakeState
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) (int64, error) {
	id := r.st.nextOrderID
	r.st.nextOrderID++
	stored := cloneOrder(o)
	stored.SetID(id)
	r.st.orders[id] = stored
	return id, nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "order not found", errs.New("no rows"))
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) UpdateFrom(_ context.Context, o *order.Order, from order.Status) (bool, error) {
	stored, ok := r.st.orders[o.ID()]
	if !ok || stored.Status() != from {
		return false, nil
	}
	r.st.orders[o.ID()] = cloneOrder(o)
	return true, nil
}

func (r *fakeOrderRepo) ListDuePendingPayment(_ context.Context, now time.Time, limit int32) ([]int64, error) {
	var ids []int64
	for id, o := range r.st.orders {
		if o.Status() == order.StatusPendingPayment && o.PaymentDeadline().Before(now) {
			ids = append(ids, id)
			if int32(len(ids)) == limit {
				break
			}
		}
	}
	return ids, nil
}

type fakeLockerRepo struct {
	st *fakeState
}

func (r *fakeLockerRepo) FindByID(_ context.Context, id int64) (*locker.Locker, error) {
	row, ok := r.st.lockers[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "locker not found", errs.New("no rows"))
	}
	coords, err := locker.NewCoordinates(0, 0)
	if err != nil {
		return nil, err
	}
	return locker.ReconstructLocker(row.id, "fake", "fake", coords, row.total, row.available, "", locker.Status(row.status))
}

func (r *fakeLockerRepo) AcquireCompartment(_ context.Context, id int64) (bool, error) {
	row, ok := r.st.lockers[id]
	if !ok || row.status != locker.StatusActive.String() || row.available <= 0 {
		return false, nil
	}
	row.available--
	r.st.lockers[id] = row
	return true, nil
}

func (r *fakeLockerRepo) ReleaseCompartment(_ context.Context, id int64) error {
	row, ok := r.st.lockers[id]
	if !ok || row.available >= row.total {
		return infra.WrapRepoErr(infra.KindConflict, "compartment release out of range", errs.New("guard violated"))
	}
	row.available++
	r.st.lockers[id] = row
	return nil
}

type fakeListingStore struct {
	st *fakeState
}

func (s *fakeListingStore) FindByID(_ context.Context, id int64) (*shared.ListingSnapshot, error) {
	snap, ok := s.st.listings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "listing not found", errs.New("no rows"))
	}
	return &snap, nil
}

func (s *fakeListingStore) MarkReserved(_ context.Context, listingID, buyerID int64) (bool, error) {
	snap, ok := s.st.listings[listingID]
	if !ok || snap.Status != shared.ListingActive {
		return false, nil
	}
	snap.Status = shared.ListingReserved
	s.st.listings[listingID] = snap
	return true, nil
}

func (s *fakeListingStore) ReleaseToActive(_ context.Context, listingID int64) error {
	snap, ok := s.st.listings[listingID]
	if ok && snap.Status == shared.ListingReserved {
		snap.Status = shared.ListingActive
		s.st.listings[listingID] = snap
	}
	return nil
}

func (s *fakeListingStore) MarkCompleted(_ context.Context, listingID int64) error {
	snap, ok := s.st.listings[listingID]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "listing not found", errs.New("no rows"))
	}
	snap.Status = shared.ListingCompleted
	s.st.listings[listingID] = snap
	return nil
}

type fakeIdemRepo struct {
	st *fakeState
}

func (r *fakeIdemRepo) TryInsert(_ context.Context, key uuid.UUID, userID int64, requestHash string, expiresAt time.Time) (bool, error) {
	k := idemKey{key: key, userID: userID}
	if _, exists := r.st.idem[k]; exists {
		return false, nil
	}
	r.st.idem[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		RequestHash: requestHash,
		Status:      "processing",
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *fakeIdemRepo) Get(_ context.Context, key uuid.UUID, userID int64) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.idem[idemKey{key: key, userID: userID}]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", errs.New("no rows"))
	}
	return &rec, nil
}

func (r *fakeIdemRepo) MarkCompleted(_ context.Context, key uuid.UUID, userID, orderID int64) error {
	k := idemKey{key: key, userID: userID}
	rec, ok := r.st.idem[k]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "idempotency key not found", errs.New("no rows"))
	}
	rec.Status = "completed"
	rec.ResultOrderID = &orderID
	r.st.idem[k] = rec
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []order.TransitionEvent
}

func (n *fakeNotifier) Notify(event order.TransitionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) Events() []order.TransitionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]order.TransitionEvent, len(n.events))
	copy(out, n.events)
	return out
}

type fakeGamification struct {
	mu      sync.Mutex
	err     error
	awarded []int64
}

func (g *fakeGamification) AwardPoints(_ context.Context, userID int64, _ string) (int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return 0, g.err
	}
	g.awarded = append(g.awarded, userID)
	return 50, nil
}

func (g *fakeGamification) Awarded() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int64, len(g.awarded))
	copy(out, g.awarded)
	return out
}
