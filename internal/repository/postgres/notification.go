package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
)

type NotificationRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewNotificationRepository(db *sqlx.DB, log *slog.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (nr *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	const op = "internal.repository.postgres.CreateNotification"

	query, args, err := nr.sq.Insert("notifications").
		Columns("id", "recipient_id", "sender_id", "sender_name", "favor_id", "favor_title", "type").
		Values(n.ID, n.RecipientID, n.SenderID, n.SenderName, n.FavorID, n.FavorTitle, n.Type).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := nr.db.QueryRowxContext(ctx, query, args...).Scan(&n.CreatedAt); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (nr *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	const op = "internal.repository.postgres.ListByRecipient"

	query, args, err := nr.sq.Select("id", "recipient_id", "sender_id", "sender_name", "favor_id", "favor_title", "type", "created_at", "read_at").
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var notifications []domain.Notification
	if err := nr.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return notifications, nil
}

func (nr *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) (time.Time, error) {
	const op = "internal.repository.postgres.MarkRead"

	// COALESCE keeps the original read timestamp on repeated calls; the
	// flag only ever flips false -> true.
	query, args, err := nr.sq.Update("notifications").
		Set("read_at", sq.Expr("COALESCE(read_at, NOW())")).
		Where(sq.Eq{"id": notificationID, "recipient_id": recipientID}).
		Suffix("RETURNING read_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var readAt time.Time
	if err := nr.db.QueryRowxContext(ctx, query, args...).Scan(&readAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%s: %w: notification with id '%s'", op, apperrors.ErrNotFound, notificationID)
		}

		return time.Time{}, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return readAt, nil
}
