package projectservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
)

type mocks struct {
	repo     *MockRepo
	queue    *MockQueue
	notifier *MockNotifier
}

func setupService(t *testing.T) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:     NewMockRepo(ctrl),
		queue:    NewMockQueue(ctrl),
		notifier: NewMockNotifier(ctrl),
	}

	return New(m.repo, m.queue, m.notifier), m
}

func TestCreateEnqueuesAssignment(t *testing.T) {
	svc, m := setupService(t)

	arg := domain.CreateProjectParams{
		Title:          "Legal contract",
		SourceLanguage: "English",
		TargetLanguage: "Spanish",
		WordCount:      1200,
		Deadline:       time.Now().Add(72 * time.Hour),
		Price:          "120",
		Client:         "alice",
	}

	m.repo.EXPECT().Create(gomock.Any(), arg).
		Return(domain.Project{ID: 7, Status: domain.ProjectPending}, nil)
	m.queue.EXPECT().Enqueue(int64(7))

	project, err := svc.Create(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, domain.ProjectPending, project.Status)
}

func TestUpdateStatus(t *testing.T) {
	assigned := domain.Project{
		ID:         7,
		Title:      "Legal contract",
		Status:     domain.ProjectAssigned,
		Client:     "alice",
		Translator: "bob",
	}

	testCases := []struct {
		name       string
		username   string
		status     domain.ProjectStatus
		buildStubs func(m mocks)
		wantErr    error
	}{
		{
			name:     "TranslatorStartsWork",
			username: "bob",
			status:   domain.ProjectInProgress,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(assigned, nil)

				updated := assigned
				updated.Status = domain.ProjectInProgress
				m.repo.EXPECT().SetStatus(gomock.Any(), domain.ProjectInProgress, int64(7)).Return(updated, nil)

				// the client is told about the move
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, arg domain.CreateNotificationParams) {
						require.Equal(t, "alice", arg.Username)
					})
			},
		},
		{
			name:     "OutsiderRejected",
			username: "mallory",
			status:   domain.ProjectInProgress,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(assigned, nil)
			},
			wantErr: domain.ErrNotProjectParticipant,
		},
		{
			name:     "TerminalProjectStaysPut",
			username: "bob",
			status:   domain.ProjectInProgress,
			buildStubs: func(m mocks) {
				m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(assigned, nil)
				m.repo.EXPECT().SetStatus(gomock.Any(), domain.ProjectInProgress, int64(7)).
					Return(domain.Project{}, domain.ErrProjectStatusFinal)
			},
			wantErr: domain.ErrProjectStatusFinal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)
			tc.buildStubs(m)

			_, err := svc.UpdateStatus(context.Background(), tc.username, tc.status, 7)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestComplete(t *testing.T) {
	svc, m := setupService(t)

	project := domain.Project{
		ID:         7,
		Title:      "Legal contract",
		Status:     domain.ProjectReview,
		Client:     "alice",
		Translator: "bob",
	}

	m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(project, nil)

	completed := project
	completed.Status = domain.ProjectCompleted
	m.repo.EXPECT().Complete(gomock.Any(), int64(7)).
		Return(domain.CompleteTxResult{
			Project: completed,
			Profile: domain.TranslatorProfile{Username: "bob", ActiveProjects: 0, CompletedProjects: 13},
		}, nil)

	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(2)

	result, err := svc.Complete(context.Background(), "bob", 7)
	require.NoError(t, err)
	require.Equal(t, domain.ProjectCompleted, result.Project.Status)
	require.EqualValues(t, 13, result.Profile.CompletedProjects)
}

func TestDelete(t *testing.T) {
	svc, m := setupService(t)

	project := domain.Project{
		ID:         7,
		Title:      "Legal contract",
		Status:     domain.ProjectAssigned,
		Client:     "alice",
		Translator: "bob",
	}

	m.repo.EXPECT().Get(gomock.Any(), int64(7)).Return(project, nil)
	m.repo.EXPECT().Delete(gomock.Any(), int64(7)).Return(project, nil)
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, arg domain.CreateNotificationParams) {
			require.Equal(t, "bob", arg.Username)
		})

	_, err := svc.Delete(context.Background(), "alice", 7)
	require.NoError(t, err)
}

func TestDeleteOnlyClient(t *testing.T) {
	svc, m := setupService(t)

	m.repo.EXPECT().Get(gomock.Any(), int64(7)).
		Return(domain.Project{ID: 7, Client: "alice"}, nil)

	_, err := svc.Delete(context.Background(), "bob", 7)
	require.ErrorIs(t, err, domain.ErrNotProjectParticipant)
}
