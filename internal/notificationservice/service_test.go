package notificationservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

func TestNotifyDropsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	svc := New(repo)

	arg := domain.CreateNotificationParams{
		Username: "alice",
		Kind:     domain.NotificationStatusChange,
		Title:    "Deposit completed",
		Message:  "$100.00 has been added to your wallet.",
	}

	// a repo failure is swallowed
	repo.EXPECT().Create(gomock.Any(), arg).Return(domain.Notification{}, errorspkg.ErrInternal)
	svc.Notify(context.Background(), arg)

	repo.EXPECT().Create(gomock.Any(), arg).Return(domain.Notification{ID: 1}, nil)
	svc.Notify(context.Background(), arg)
}

func TestMarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	svc := New(repo)

	repo.EXPECT().
		MarkRead(gomock.Any(), int64(5), "alice").
		Return(domain.Notification{}, domain.ErrNotificationNotFound)

	_, err := svc.MarkRead(context.Background(), 5, "alice")
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestUnreadCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	svc := New(repo)

	repo.EXPECT().CountUnread(gomock.Any(), "alice").Return(int64(3), nil)

	count, err := svc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}
