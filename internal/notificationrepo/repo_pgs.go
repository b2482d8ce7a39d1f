// Package notificationrepo manages repository layer of user notifications.
package notificationrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/dbpkg"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

// RepoPGS facilitates notification repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const notificationColumns = `
	id, username, kind, title, message, COALESCE(project_id, 0), read, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (domain.Notification, error) {
	var n domain.Notification

	err := row.Scan(
		&n.ID,
		&n.Username,
		&n.Kind,
		&n.Title,
		&n.Message,
		&n.ProjectID,
		&n.Read,
		&n.CreatedAt,
	)

	return n, err
}

const createNotificationQuery = `
INSERT INTO
    notifications (username, kind, title, message, project_id)
VALUES
    ($1, $2, $3, $4, NULLIF($5, 0))
RETURNING` + notificationColumns

// Create appends the notification to the user's feed and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateNotificationParams) (domain.Notification, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createNotificationQuery,
		arg.Username, arg.Kind, arg.Title, arg.Message, arg.ProjectID)

	n, err := scanNotification(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "notifications_username_fkey" {
				return n, domain.ErrUserNotFound
			}
		}

		return n, errorspkg.ErrInternal
	}

	return n, nil
}

const listByUserQuery = `
SELECT` + notificationColumns + `
FROM notifications
WHERE username = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// ListByUser returns the user's notifications, newest first.
func (r *RepoPGS) ListByUser(ctx context.Context, username string, limit, offset int32) ([]domain.Notification, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByUserQuery, username, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Notification{}

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const countUnreadQuery = `
SELECT COUNT(*)
FROM notifications
WHERE username = $1 AND NOT read
`

// CountUnread returns how many of the user's notifications are unread.
func (r *RepoPGS) CountUnread(ctx context.Context, username string) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countUnreadQuery, username).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}

const markReadQuery = `
UPDATE notifications
SET read = TRUE
WHERE id = $1 AND username = $2
RETURNING` + notificationColumns

// MarkRead flags the user's notification as read.
func (r *RepoPGS) MarkRead(ctx context.Context, id int64, username string) (domain.Notification, error) {
	l := zerolog.Ctx(ctx)

	n, err := scanNotification(r.db.QueryRowContext(ctx, markReadQuery, id, username))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return n, domain.ErrNotificationNotFound
		}

		return n, errorspkg.ErrInternal
	}

	return n, nil
}

const markAllReadQuery = `
UPDATE notifications
SET read = TRUE
WHERE username = $1 AND NOT read
`

// MarkAllRead flags every unread notification of the user as read.
func (r *RepoPGS) MarkAllRead(ctx context.Context, username string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, markAllReadQuery, username); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}
