// Package assignservice manages business logic of automatic translator
// assignment.
package assignservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/matching"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=assignservice

// ProjectRepo provides project data access to the assignment service.
type ProjectRepo interface {
	Get(ctx context.Context, id int64) (domain.Project, error)
	Assign(ctx context.Context, arg domain.AssignProjectParams) (domain.AssignTxResult, error)
}

// ProfileLister provides the translator directory to the assignment service.
type ProfileLister interface {
	List(ctx context.Context) ([]domain.TranslatorProfile, error)
}

// UserGetter provides user lookups to the assignment service.
type UserGetter interface {
	Get(ctx context.Context, username string) (domain.User, error)
}

// Notifier appends notifications to user feeds.
type Notifier interface {
	Notify(ctx context.Context, arg domain.CreateNotificationParams)
}

// Messenger posts messages to project feeds.
type Messenger interface {
	Post(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error)
}

// Service facilitates automatic assignment logic.
type Service struct {
	projects  ProjectRepo
	profiles  ProfileLister
	users     UserGetter
	notifier  Notifier
	messenger Messenger
}

func New(projects ProjectRepo, profiles ProfileLister, users UserGetter, notifier Notifier, messenger Messenger) *Service {
	return &Service{
		projects:  projects,
		profiles:  profiles,
		users:     users,
		notifier:  notifier,
		messenger: messenger,
	}
}

// Assign picks the best scoring eligible translator for the project and
// assigns it. A project with no eligible translator stays pending; the
// client is told once and the project is retried later.
func (s *Service) Assign(ctx context.Context, projectID int64) (domain.AssignTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AssignTxResult

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return result, err
	}

	if project.Status != domain.ProjectPending || project.Translator != "" {
		return result, domain.ErrProjectAlreadyAssigned
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return result, err
	}

	best, score, ok := matching.Best(project, profiles)
	if !ok {
		l.Info().Int64("project_id", projectID).Msg("no eligible translator")

		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username:  project.Client,
			Kind:      domain.NotificationStatusChange,
			Title:     "Looking for a translator",
			Message:   fmt.Sprintf("No translator is available for %q yet. We keep looking.", project.Title),
			ProjectID: projectID,
		})

		return result, domain.ErrNoEligibleTranslator
	}

	translator, err := s.users.Get(ctx, best.Username)
	if err != nil {
		return result, err
	}

	result, err = s.projects.Assign(ctx, domain.AssignProjectParams{
		ProjectID:      projectID,
		ProfileID:      best.ID,
		Translator:     best.Username,
		TranslatorName: translator.FullName,
		MatchScore:     score,
	})
	if err != nil {
		return result, err
	}

	l.Info().
		Int64("project_id", projectID).
		Str("translator", best.Username).
		Float64("match_score", score).
		Msg("project assigned")

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username:  best.Username,
		Kind:      domain.NotificationProjectAssigned,
		Title:     "New project assigned",
		Message:   fmt.Sprintf("You have been assigned to %q (%s to %s).", project.Title, project.SourceLanguage, project.TargetLanguage),
		ProjectID: projectID,
	})

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username:  project.Client,
		Kind:      domain.NotificationProjectAssigned,
		Title:     "Translator found",
		Message:   fmt.Sprintf("%s will translate %q.", translator.FullName, project.Title),
		ProjectID: projectID,
	})

	if _, err := s.messenger.Post(ctx, domain.CreateMessageParams{
		ProjectID:  projectID,
		Sender:     best.Username,
		SenderName: translator.FullName,
		Text:       fmt.Sprintf("Hi! I have been assigned to %q and will start shortly. Feel free to share any context here.", project.Title),
	}); err != nil {
		l.Warn().Err(err).Int64("project_id", projectID).Msg("welcome message dropped")
	}

	return result, nil
}
