// Package notificationservice manages business logic of user notifications.
package notificationservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=notificationservice

// Repo provides data access layer to the notification service.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateNotificationParams) (domain.Notification, error)
	ListByUser(ctx context.Context, username string, limit, offset int32) ([]domain.Notification, error)
	CountUnread(ctx context.Context, username string) (int64, error)
	MarkRead(ctx context.Context, id int64, username string) (domain.Notification, error)
	MarkAllRead(ctx context.Context, username string) error
}

// Service facilitates notification service logic.
type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

// Notify appends the notification, dropping it on failure. A lost
// notification must never fail the operation that produced it.
func (s *Service) Notify(ctx context.Context, arg domain.CreateNotificationParams) {
	l := zerolog.Ctx(ctx)

	if _, err := s.repo.Create(ctx, arg); err != nil {
		l.Warn().Err(err).Str("username", arg.Username).Str("title", arg.Title).Msg("notification dropped")
	}
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, username string, limit, offset int32) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, username, limit, offset)
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *Service) UnreadCount(ctx context.Context, username string) (int64, error) {
	return s.repo.CountUnread(ctx, username)
}

// MarkRead flags the user's notification as read.
func (s *Service) MarkRead(ctx context.Context, id int64, username string) (domain.Notification, error) {
	return s.repo.MarkRead(ctx, id, username)
}

// MarkAllRead flags every unread notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, username string) error {
	return s.repo.MarkAllRead(ctx, username)
}
