// Package messageservice manages business logic of project messages.
package messageservice

import (
	"context"
	"fmt"

	"github.com/linguamarket/lingua/internal/domain"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=messageservice

// Repo provides data access layer to the message service.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Message, error)
	MarkRead(ctx context.Context, projectID int64, reader string) error
	CountUnread(ctx context.Context, username string) (int64, error)
}

// ProjectGetter provides project lookups to the message service.
type ProjectGetter interface {
	Get(ctx context.Context, id int64) (domain.Project, error)
}

// UserGetter provides user lookups to the message service.
type UserGetter interface {
	Get(ctx context.Context, username string) (domain.User, error)
}

// Notifier appends notifications to user feeds.
type Notifier interface {
	Notify(ctx context.Context, arg domain.CreateNotificationParams)
}

// Service facilitates message service logic.
type Service struct {
	repo     Repo
	projects ProjectGetter
	users    UserGetter
	notifier Notifier
}

func New(repo Repo, projects ProjectGetter, users UserGetter, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		users:    users,
		notifier: notifier,
	}
}

func participant(project domain.Project, username string) bool {
	return project.Client == username || project.Translator == username
}

// Post appends the message to the project feed and notifies the
// counterparty. Only project participants may post.
func (s *Service) Post(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error) {
	var msg domain.Message

	project, err := s.projects.Get(ctx, arg.ProjectID)
	if err != nil {
		return msg, err
	}

	if !participant(project, arg.Sender) {
		return msg, domain.ErrNotProjectParticipant
	}

	if arg.SenderName == "" {
		sender, err := s.users.Get(ctx, arg.Sender)
		if err != nil {
			return msg, err
		}

		arg.SenderName = sender.FullName
	}

	msg, err = s.repo.Create(ctx, arg)
	if err != nil {
		return msg, err
	}

	counterparty := project.Client
	if arg.Sender == project.Client {
		counterparty = project.Translator
	}

	if counterparty != "" {
		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username:  counterparty,
			Kind:      domain.NotificationMessage,
			Title:     "New message",
			Message:   fmt.Sprintf("%s sent a message in %q.", arg.SenderName, project.Title),
			ProjectID: project.ID,
		})
	}

	return msg, nil
}

// List returns the project feed to a participant and marks the messages
// addressed to them as read.
func (s *Service) List(ctx context.Context, username string, projectID int64) ([]domain.Message, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !participant(project, username) {
		return nil, domain.ErrNotProjectParticipant
	}

	messages, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkRead(ctx, projectID, username); err != nil {
		return nil, err
	}

	return messages, nil
}

// UnreadCount returns how many messages addressed to the user are unread
// across all of the user's projects.
func (s *Service) UnreadCount(ctx context.Context, username string) (int64, error) {
	return s.repo.CountUnread(ctx, username)
}
