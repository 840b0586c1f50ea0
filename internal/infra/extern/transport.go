package extern

import (
	"context"
	"log/slog"

	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"
)

// LogPushTransport stands in for the real push gateway. Messages are
// already persisted as in-app notifications before Push is called, so
// losing a push is recoverable.
type LogPushTransport struct{}

func NewLogPushTransport() shared.NotificationTransport {
	return &LogPushTransport{}
}

func (t *LogPushTransport) Push(_ context.Context, userID int64, notifType, title, _ string) error {
	slog.Info("push notification sent",
		"user_id", userID, "type", notifType, "title", title)
	return nil
}
