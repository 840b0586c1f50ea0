package repository

import (
	"context"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/infra"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n shared.NewNotification, createdAt time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, order_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING id`,
		n.UserID, n.OrderID, n.Type, n.Title, n.Message, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to insert notification", err)
	}
	return id, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int32) ([]*shared.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, order_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list notifications", err)
	}
	defer rows.Close()

	var result []*shared.Notification
	for rows.Next() {
		var n shared.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.OrderID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan notification", err)
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read notification rows", err)
	}
	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to mark notification read", err)
	}
	return tag.RowsAffected() == 1, nil
}
