package messageservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
)

type mocks struct {
	repo     *MockRepo
	projects *MockProjectGetter
	users    *MockUserGetter
	notifier *MockNotifier
}

func setupService(t *testing.T) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:     NewMockRepo(ctrl),
		projects: NewMockProjectGetter(ctrl),
		users:    NewMockUserGetter(ctrl),
		notifier: NewMockNotifier(ctrl),
	}

	return New(m.repo, m.projects, m.users, m.notifier), m
}

func project() domain.Project {
	return domain.Project{
		ID:         7,
		Title:      "Legal contract",
		Client:     "alice",
		Translator: "bob",
	}
}

func TestPost(t *testing.T) {
	testCases := []struct {
		name       string
		arg        domain.CreateMessageParams
		buildStubs func(m mocks)
		wantErr    error
	}{
		{
			name: "ClientPostsTranslatorNotified",
			arg:  domain.CreateMessageParams{ProjectID: 7, Sender: "alice", Text: "Any update?"},
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(project(), nil)
				m.users.EXPECT().Get(gomock.Any(), "alice").
					Return(domain.User{Username: "alice", FullName: "Alice Client"}, nil)
				m.repo.EXPECT().
					Create(gomock.Any(), domain.CreateMessageParams{
						ProjectID:  7,
						Sender:     "alice",
						SenderName: "Alice Client",
						Text:       "Any update?",
					}).
					Return(domain.Message{ID: 1, Sender: "alice"}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, arg domain.CreateNotificationParams) {
						require.Equal(t, "bob", arg.Username)
						require.Equal(t, domain.NotificationMessage, arg.Kind)
					})
			},
		},
		{
			name: "SenderNameAlreadyKnown",
			arg:  domain.CreateMessageParams{ProjectID: 7, Sender: "bob", SenderName: "Bob Reyes", Text: "On it."},
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(project(), nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(domain.Message{ID: 2, Sender: "bob"}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, arg domain.CreateNotificationParams) {
						require.Equal(t, "alice", arg.Username)
					})
			},
		},
		{
			name: "OutsiderRejected",
			arg:  domain.CreateMessageParams{ProjectID: 7, Sender: "mallory", Text: "hi"},
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(project(), nil)
			},
			wantErr: domain.ErrNotProjectParticipant,
		},
		{
			name: "ProjectGone",
			arg:  domain.CreateMessageParams{ProjectID: 9, Sender: "alice", Text: "hi"},
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(9)).
					Return(domain.Project{}, domain.ErrProjectNotFound)
			},
			wantErr: domain.ErrProjectNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)
			tc.buildStubs(m)

			_, err := svc.Post(context.Background(), tc.arg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestListMarksRead(t *testing.T) {
	svc, m := setupService(t)

	m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(project(), nil)
	m.repo.EXPECT().ListByProject(gomock.Any(), int64(7)).
		Return([]domain.Message{{ID: 1, Sender: "bob", Text: "done"}}, nil)
	m.repo.EXPECT().MarkRead(gomock.Any(), int64(7), "alice").Return(nil)

	messages, err := svc.List(context.Background(), "alice", 7)
	require.NoError(t, err)
	require.Len(t, messages, 1)
}

func TestListOutsiderRejected(t *testing.T) {
	svc, m := setupService(t)

	m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(project(), nil)

	_, err := svc.List(context.Background(), "mallory", 7)
	require.ErrorIs(t, err, domain.ErrNotProjectParticipant)
}
