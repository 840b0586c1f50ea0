package shared

import (
	"context"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/locker"
	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"

	"github.com/google/uuid"
)

// Listing statuses mirrored from the catalog service. This engine only
// ever flips a listing between these three values.
const (
	ListingActive    = "active"
	ListingReserved  = "reserved"
	ListingCompleted = "completed"
)

// ListingSnapshot is the read slice of a catalog listing this engine needs.
type ListingSnapshot struct {
	ID         int64
	SellerID   int64
	PriceCents int64
	Status     string
}

type IdempotencyRecord struct {
	Key           uuid.UUID
	UserID        int64
	RequestHash   string
	Status        string
	ResultOrderID *int64
	ExpiresAt     time.Time
}

type NewNotification struct {
	UserID  int64
	OrderID int64
	Type    string
	Title   string
	Message string
}

type Notification struct {
	ID        int64
	UserID    int64
	OrderID   int64
	Type      string
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*order.Order, error)
	// UpdateFrom persists the entity's current state iff the stored status
	// still equals from. A false return means another writer won the race.
	UpdateFrom(ctx context.Context, o *order.Order, from order.Status) (bool, error)
	ListDuePendingPayment(ctx context.Context, now time.Time, limit int32) ([]int64, error)
}

type LockerRepository interface {
	FindByID(ctx context.Context, id int64) (*locker.Locker, error)
	// AcquireCompartment decrements the availability counter iff the locker
	// is active and a compartment is free. Check and decrement are one
	// guarded statement; concurrent callers cannot both take the last slot.
	AcquireCompartment(ctx context.Context, id int64) (bool, error)
	// ReleaseCompartment increments the counter, never past capacity.
	ReleaseCompartment(ctx context.Context, id int64) error
}

type ListingStore interface {
	FindByID(ctx context.Context, id int64) (*ListingSnapshot, error)
	// MarkReserved flips active -> reserved; false when the listing was
	// taken by a concurrent reservation.
	MarkReserved(ctx context.Context, listingID, buyerID int64) (bool, error)
	// ReleaseToActive flips reserved -> active. A no-op when the listing
	// has moved on (e.g. sold elsewhere after a cancellation).
	ReleaseToActive(ctx context.Context, listingID int64) error
	MarkCompleted(ctx context.Context, listingID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n NewNotification, createdAt time.Time) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit int32) ([]*Notification, error)
	// MarkRead flips is_read for the recipient's own notification only.
	MarkRead(ctx context.Context, userID, notificationID int64) (bool, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key for this request. False means the key
	// already existed; inspect it with Get.
	TryInsert(ctx context.Context, key uuid.UUID, userID int64, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, userID int64) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key uuid.UUID, userID, orderID int64) error
}

// Tx exposes the write-side repositories bound to one transaction.
type Tx interface {
	Orders() OrderRepository
	Lockers() LockerRepository
	Listings() ListingStore
	Idempotency() IdempotencyRepository
}

type UnitOfWork interface {
	// Within runs fn in a read-committed transaction, retrying on
	// serialization failures. Either every effect of fn commits or none do.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// GamificationService is the external points engine. The awarded amount is
// owned there and never persisted by this engine.
type GamificationService interface {
	AwardPoints(ctx context.Context, userID int64, action string) (int32, error)
}

const ActionSale = "sale"

// NotificationTransport is the external push/in-app delivery channel.
// Fire-and-forget from this engine's point of view.
type NotificationTransport interface {
	Push(ctx context.Context, userID int64, notifType, title, message string) error
}

// TransitionNotifier receives committed transitions for fan-out. Delivery
// is best-effort and must not influence the transition result.
type TransitionNotifier interface {
	Notify(event order.TransitionEvent)
}
