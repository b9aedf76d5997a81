package store

import (
	"context"
	"fmt"
	"time"

	"giventake/internal/utils"
	"giventake/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationTableName = "giventake.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts all notifications in one statement.
func (r *NotificationRepository) Create(ctx context.Context, notifications ...*types.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	now := time.Now()
	insert := psql().Insert(notificationTableName).Columns(notificationColumns...)
	for _, n := range notifications {
		n.CreatedAt = now
		insert = insert.Values(n.ID, n.Type, n.UserType, n.RecipientID, n.Status, n.Message, n.Metadata, n.CreatedAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create notifications query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	return nil
}

func (r *NotificationRepository) Notifications(ctx context.Context, filter types.NotificationFilter) ([]*types.Notification, error) {
	where := sq.Eq{}
	if filter.ID != "" {
		where["id"] = filter.ID
	}
	if filter.Type != "" {
		where["type"] = filter.Type
	}
	if filter.UserType != "" {
		where["user_type"] = filter.UserType
	}
	if filter.RecipientID != "" {
		where["recipient_id"] = filter.RecipientID
	}
	if filter.Status != "" {
		where["status"] = filter.Status
	}

	query, args, err := psql().
		Select(notificationColumns...).
		From(notificationTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notifications query: %w", err)
	}

	var notifications []*types.Notification
	err = pgxscan.Select(ctx, r.pool, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationIDs []string) (int64, error) {
	if len(notificationIDs) == 0 {
		return 0, nil
	}
	return r.markRead(ctx, sq.Eq{"id": notificationIDs})
}

func (r *NotificationRepository) MarkReadByRecipient(ctx context.Context, recipientID string) (int64, error) {
	return r.markRead(ctx, sq.Eq{"recipient_id": recipientID, "status": types.NotificationStatusUnread})
}

func (r *NotificationRepository) markRead(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := psql().
		Update(notificationTableName).
		Set("status", types.NotificationStatusRead).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate mark read query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return tag.RowsAffected(), nil
}
