package notification

import (
	"context"

	"solace/models"
)

// Service persists in-app notifications and attempts the matching push.
// Create never reports push failures; only persistence errors surface, and
// callers in the booking workflow treat even those as fire-and-forget.
type Service interface {
	Create(ctx context.Context, n models.Notification) error
	ListForRecipient(ctx context.Context, recipientID string, role models.Role, page, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}
