package queries

import (
	"context"

	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"
)

var ErrNotificationNotFound = errs.New("notification not found")

const defaultNotificationLimit = 100

type NotificationQueries interface {
	ListByUser(ctx context.Context, userID int64) ([]*shared.Notification, error)
	// MarkRead flips is_read on the caller's own notification; anyone
	// else's notification is reported as missing.
	MarkRead(ctx context.Context, userID, notificationID int64) error
}

type notificationQueriesImpl struct {
	repo shared.NotificationRepository
}

func NewNotificationQueries(repo shared.NotificationRepository) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) ListByUser(ctx context.Context, userID int64) ([]*shared.Notification, error) {
	return q.repo.ListByUser(ctx, userID, defaultNotificationLimit)
}

func (q *notificationQueriesImpl) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := q.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
