package repository

import (
	"context"

	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/domain"
)

type notificationStore struct {
	q querier
}

func (s notificationStore) Insert(ctx context.Context, n *domain.Notification) error {
	return s.q.QueryRow(ctx, `
		INSERT INTO notifications (branch_id, title, message, type)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, n.BranchID, n.Title, n.Message, string(n.Type)).Scan(&n.ID, &n.CreatedAt)
}

// NotificationRepository is the read/ack side used by the HTTP layer.
type NotificationRepository struct {
	DB *db.Postgres
}

func (r NotificationRepository) List(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, branch_id, title, message, type, created_at, read_at
		FROM notifications
		WHERE NOT $1 OR read_at IS NULL
		ORDER BY id DESC
		LIMIT $2
	`, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.BranchID, &n.Title, &n.Message, &typ, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE notifications SET read_at = now() WHERE id = $1 AND read_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
