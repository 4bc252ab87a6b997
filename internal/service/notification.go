package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/repository"
)

type NotificationService interface {
	// List returns the user's notifications, newest first.
	List(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkRead flips the notification's read flag and returns the read
	// timestamp. Repeated calls keep the original timestamp.
	MarkRead(ctx context.Context, notificationID, userID string) (time.Time, error)
}

type NotificationServiceImpl struct {
	log  *slog.Logger
	repo repository.NotificationRepository
}

func NewNotificationService(log *slog.Logger, repo repository.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		log:  log,
		repo: repo,
	}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	const op = "internal.service.notification.List"

	notifications, err := s.repo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list notifications: %w", op, err)
	}

	return notifications, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, notificationID, userID string) (time.Time, error) {
	const op = "internal.service.notification.MarkRead"

	readAt, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: failed to mark notification read: %w", op, err)
	}

	return readAt, nil
}
