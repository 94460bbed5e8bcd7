package notification

import (
	"context"
	"fmt"

	notificationRepo "solace/database/repository/notification"
	psychologistRepo "solace/database/repository/psychologist"
	userRepo "solace/database/repository/user"
	"solace/models"
	"solace/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo      notificationRepo.NotificationRepository
	UserRepo  userRepo.UserRepository
	PsychRepo psychologistRepo.PsychologistRepository
	Logger    *zap.Logger
}

// Create persists the notification and attempts an FCM push. Push failures
// are logged and swallowed.
func (s *DefaultNotificationService) Create(ctx context.Context, n models.Notification) error {
	if !n.RecipientRole.Valid() {
		return fmt.Errorf("invalid recipient role %q", n.RecipientRole)
	}
	if err := s.Repo.Create(ctx, &n); err != nil {
		return err
	}

	if err := s.push(ctx, n); err != nil {
		s.Logger.Warn("push delivery failed",
			zap.String("recipientId", n.RecipientID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
	}
	return nil
}

func (s *DefaultNotificationService) ListForRecipient(ctx context.Context, recipientID string, role models.Role, page, limit int64) ([]models.Notification, error) {
	return s.Repo.ListByRecipient(ctx, recipientID, role, page, limit)
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	return s.Repo.MarkRead(ctx, id, recipientID)
}

// fcmToken resolves the recipient's push token through the closed role set.
func (s *DefaultNotificationService) fcmToken(ctx context.Context, n models.Notification) (string, error) {
	switch n.RecipientRole {
	case models.RoleUser:
		u, err := s.UserRepo.GetByID(ctx, n.RecipientID)
		if err != nil || u == nil {
			return "", fmt.Errorf("user %s not found: %w", n.RecipientID, err)
		}
		return u.FCMToken, nil
	case models.RolePsychologist:
		p, err := s.PsychRepo.GetByID(ctx, n.RecipientID)
		if err != nil || p == nil {
			return "", fmt.Errorf("psychologist %s not found: %w", n.RecipientID, err)
		}
		return p.FCMToken, nil
	default:
		// Staff notifications are in-app only.
		return "", nil
	}
}

func (s *DefaultNotificationService) push(ctx context.Context, n models.Notification) error {
	if utils.FCMClient == nil {
		return nil
	}
	token, err := s.fcmToken(ctx, n)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	data := map[string]string{
		"type": n.Type,
		"role": string(n.RecipientRole),
	}
	for k, v := range n.Metadata {
		data[k] = v
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Description,
		},
		Data: data,
	}
	if n.Priority == models.NotificationPriorityHigh {
		msg.Android = &messaging.AndroidConfig{Priority: "high"}
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
