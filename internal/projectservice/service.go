// Package projectservice manages business logic of translation projects.
package projectservice

import (
	"context"
	"fmt"

	"github.com/linguamarket/lingua/internal/domain"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=projectservice

// Repo provides data access layer to the project service.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateProjectParams) (domain.Project, error)
	Get(ctx context.Context, id int64) (domain.Project, error)
	ListByParticipant(ctx context.Context, username string) ([]domain.Project, error)
	SetStatus(ctx context.Context, status domain.ProjectStatus, id int64) (domain.Project, error)
	Complete(ctx context.Context, id int64) (domain.CompleteTxResult, error)
	Delete(ctx context.Context, id int64) (domain.Project, error)
}

// Queue enqueues projects for asynchronous translator assignment.
type Queue interface {
	Enqueue(projectID int64)
}

// Notifier appends notifications to user feeds.
type Notifier interface {
	Notify(ctx context.Context, arg domain.CreateNotificationParams)
}

// Service facilitates project service logic.
type Service struct {
	repo     Repo
	queue    Queue
	notifier Notifier
}

func New(repo Repo, queue Queue, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		queue:    queue,
		notifier: notifier,
	}
}

// Create posts the project and queues it for automatic assignment. The
// response does not wait for the matching to run.
func (s *Service) Create(ctx context.Context, arg domain.CreateProjectParams) (domain.Project, error) {
	project, err := s.repo.Create(ctx, arg)
	if err != nil {
		return project, err
	}

	s.queue.Enqueue(project.ID)

	return project, nil
}

// Get returns the project with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Project, error) {
	return s.repo.Get(ctx, id)
}

// List returns the projects the user posted or works on, newest first.
func (s *Service) List(ctx context.Context, username string) ([]domain.Project, error) {
	return s.repo.ListByParticipant(ctx, username)
}

// UpdateStatus moves the project to the given status on behalf of a
// participant. Completion goes through Complete, terminal projects stay put.
func (s *Service) UpdateStatus(ctx context.Context, username string, status domain.ProjectStatus, id int64) (domain.Project, error) {
	if status == domain.ProjectCompleted {
		result, err := s.Complete(ctx, username, id)
		return result.Project, err
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return project, err
	}

	if project.Client != username && project.Translator != username {
		return domain.Project{}, domain.ErrNotProjectParticipant
	}

	updated, err := s.repo.SetStatus(ctx, status, id)
	if err != nil {
		return updated, err
	}

	counterparty := updated.Client
	if username == updated.Client {
		counterparty = updated.Translator
	}

	if counterparty != "" {
		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username:  counterparty,
			Kind:      domain.NotificationStatusChange,
			Title:     "Project status updated",
			Message:   fmt.Sprintf("%q is now %s.", updated.Title, updated.Status),
			ProjectID: updated.ID,
		})
	}

	return updated, nil
}

// Complete marks the project finished and frees the translator's capacity.
// Repeating the call changes nothing.
func (s *Service) Complete(ctx context.Context, username string, id int64) (domain.CompleteTxResult, error) {
	var result domain.CompleteTxResult

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return result, err
	}

	if project.Client != username && project.Translator != username {
		return result, domain.ErrNotProjectParticipant
	}

	result, err = s.repo.Complete(ctx, id)
	if err != nil {
		return result, err
	}

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username:  result.Project.Client,
		Kind:      domain.NotificationProjectCompleted,
		Title:     "Project completed",
		Message:   fmt.Sprintf("%q has been completed.", result.Project.Title),
		ProjectID: result.Project.ID,
	})

	if result.Project.Translator != "" && result.Project.Translator != result.Project.Client {
		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username:  result.Project.Translator,
			Kind:      domain.NotificationProjectCompleted,
			Title:     "Project completed",
			Message:   fmt.Sprintf("%q has been completed. Payment will be released by the client.", result.Project.Title),
			ProjectID: result.Project.ID,
		})
	}

	return result, nil
}

// Delete removes the client's project and releases any reserved capacity.
func (s *Service) Delete(ctx context.Context, username string, id int64) (domain.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return project, err
	}

	if project.Client != username {
		return domain.Project{}, domain.ErrNotProjectParticipant
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return deleted, err
	}

	if deleted.Translator != "" && !deleted.Status.Terminal() {
		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username: deleted.Translator,
			Kind:     domain.NotificationStatusChange,
			Title:    "Project withdrawn",
			Message:  fmt.Sprintf("%q has been withdrawn by the client.", deleted.Title),
		})
	}

	return deleted, nil
}
