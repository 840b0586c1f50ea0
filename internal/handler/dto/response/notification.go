package response

import (
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromNotification(n *shared.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
