package notificationRepo

import (
	"context"

	"solace/models"
)

// NotificationRepository is the persistence contract for in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, role models.Role, page, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}
