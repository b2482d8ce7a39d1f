package userservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/errorspkg"
	"github.com/linguamarket/lingua/pkg/passpkg"
	"github.com/linguamarket/lingua/pkg/randompkg"
)

type mocks struct {
	repo     *MockRepo
	resolver *MockCurrencyResolver
	notifier *MockNotifier
}

func setupService(t *testing.T) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:     NewMockRepo(ctrl),
		resolver: NewMockCurrencyResolver(ctrl),
		notifier: NewMockNotifier(ctrl),
	}

	return New(m.repo, m.resolver, m.notifier), m
}

func TestCreateClient(t *testing.T) {
	svc, m := setupService(t)

	m.resolver.EXPECT().Currency(gomock.Any(), "49.207.0.1").Return("INR")
	m.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, arg domain.CreateUserParams) (domain.User, error) {
			require.Equal(t, "alice", arg.Username)
			require.Equal(t, domain.RoleClient, arg.Role)
			require.Equal(t, "INR", arg.Currency)

			// stored hash must verify against the raw password
			require.NoError(t, passpkg.Check("secret123", arg.HashedPassword))

			return domain.User{
				Username:      arg.Username,
				FullName:      arg.FullName,
				Role:          arg.Role,
				Currency:      arg.Currency,
				WalletBalance: "0",
			}, nil
		})

	user, err := svc.Create(context.Background(), CreateParams{
		Username: "alice",
		Password: "secret123",
		FullName: "Alice Client",
		Email:    "alice@example.com",
		Role:     domain.RoleClient,
		ClientIP: "49.207.0.1",
	})
	require.NoError(t, err)
	require.Equal(t, "INR", user.Currency)
}

func TestCreateTranslatorGetsStarterProfile(t *testing.T) {
	svc, m := setupService(t)

	m.resolver.EXPECT().Currency(gomock.Any(), gomock.Any()).Return("USD")

	m.repo.EXPECT().
		CreateTranslator(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userArg domain.CreateUserParams, profileArg domain.CreateProfileParams) (domain.User, error) {
			require.Equal(t, "bob", userArg.Username)
			require.Equal(t, domain.RoleTranslator, userArg.Role)
			require.Equal(t, "bob", profileArg.Username)
			require.EqualValues(t, 3, profileArg.MaxConcurrentProjects)
			require.Equal(t, 5.0, profileArg.Rating)
			return domain.User{Username: "bob", Role: domain.RoleTranslator, Currency: "USD"}, nil
		})

	_, err := svc.Create(context.Background(), CreateParams{
		Username: "bob",
		Password: randompkg.String(10),
		FullName: "Bob Reyes",
		Email:    "bob@example.com",
		Role:     domain.RoleTranslator,
	})
	require.NoError(t, err)
}

// A failed starter profile fails the whole registration instead of leaving a
// translator invisible to matching.
func TestCreateTranslatorProfileFailureFailsRegistration(t *testing.T) {
	svc, m := setupService(t)

	m.resolver.EXPECT().Currency(gomock.Any(), gomock.Any()).Return("USD")
	m.repo.EXPECT().
		CreateTranslator(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.User{}, errorspkg.ErrInternal)

	_, err := svc.Create(context.Background(), CreateParams{
		Username: "bob",
		Password: randompkg.String(10),
		Role:     domain.RoleTranslator,
	})
	require.ErrorIs(t, err, errorspkg.ErrInternal)
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc, m := setupService(t)

	m.resolver.EXPECT().Currency(gomock.Any(), gomock.Any()).Return("USD")
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(domain.User{}, domain.ErrUsernameAlreadyExists)

	_, err := svc.Create(context.Background(), CreateParams{
		Username: "alice",
		Password: "secret123",
		Role:     domain.RoleClient,
	})
	require.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestCheckPassword(t *testing.T) {
	hashed, err := passpkg.Hash("secret123")
	require.NoError(t, err)

	stored := domain.User{Username: "alice", HashedPassword: hashed, Role: domain.RoleClient}

	testCases := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "OK", password: "secret123"},
		{name: "Wrong", password: "nope", wantErr: domain.ErrWrongPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)

			m.repo.EXPECT().Get(gomock.Any(), "alice").Return(stored, nil)

			_, err := svc.CheckPassword(context.Background(), "alice", tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestChangeCurrency(t *testing.T) {
	svc, m := setupService(t)

	m.repo.EXPECT().SetCurrency(gomock.Any(), "EUR", "alice").
		Return(domain.User{Username: "alice", Currency: "EUR", WalletBalance: "100"}, nil)
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, arg domain.CreateNotificationParams) {
			require.Equal(t, "alice", arg.Username)
		})

	user, err := svc.ChangeCurrency(context.Background(), "alice", "EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", user.Currency)

	// stored balance is untouched by a display currency change
	require.Equal(t, "100", user.WalletBalance)
}
