package ledgerservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/gateway"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

type mocks struct {
	repo     *MockRepo
	users    *MockUserGetter
	projects *MockProjectGetter
	gateway  *MockPaymentGateway
	notifier *MockNotifier
}

func setupService(t *testing.T) (*Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:     NewMockRepo(ctrl),
		users:    NewMockUserGetter(ctrl),
		projects: NewMockProjectGetter(ctrl),
		gateway:  NewMockPaymentGateway(ctrl),
		notifier: NewMockNotifier(ctrl),
	}

	return New(m.repo, m.users, m.projects, m.gateway, m.notifier), m
}

func client(balance string) domain.User {
	return domain.User{
		Username:      "alice",
		FullName:      "Alice Client",
		Role:          domain.RoleClient,
		Currency:      "USD",
		WalletBalance: balance,
	}
}

func TestInitiateDeposit(t *testing.T) {
	testCases := []struct {
		name       string
		amount     string
		buildStubs func(m mocks)
		check      func(t *testing.T, result InitiateDepositResult, err error)
	}{
		{
			name:   "OK",
			amount: "100",
			buildStubs: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("0"), nil)

				// 100 plus the 5% commission is charged at the gateway
				m.gateway.EXPECT().
					CreateOrder(gomock.Any(), int64(10500), "USD", gomock.Any()).
					Return(gateway.Order{ID: "order_123", Status: "created"}, nil)

				m.repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
						require.Equal(t, domain.TransactionDeposit, arg.Kind)
						require.Equal(t, domain.TransactionPending, arg.Status)
						require.Equal(t, "100", arg.Amount)
						require.Equal(t, "5", arg.Fee)
						require.Equal(t, "order_123", arg.GatewayOrderID)
						return domain.Transaction{ID: 1, Owner: arg.Owner, Amount: arg.Amount}, nil
					})
			},
			check: func(t *testing.T, result InitiateDepositResult, err error) {
				require.NoError(t, err)
				require.Equal(t, "order_123", result.OrderID)
				require.Equal(t, "105", result.TotalCharge)
				require.Equal(t, "5", result.Commission)
			},
		},
		{
			name:       "InvalidAmount",
			amount:     "not-a-number",
			buildStubs: func(m mocks) {},
			check: func(t *testing.T, result InitiateDepositResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:       "NegativeAmount",
			amount:     "-25",
			buildStubs: func(m mocks) {},
			check: func(t *testing.T, result InitiateDepositResult, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:   "TranslatorDepositsFeeFree",
			amount: "100",
			buildStubs: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), "alice").
					Return(domain.User{Username: "alice", Role: domain.RoleTranslator, Currency: "USD"}, nil)

				// no commission on top for a translator top-up
				m.gateway.EXPECT().
					CreateOrder(gomock.Any(), int64(10000), "USD", gomock.Any()).
					Return(gateway.Order{ID: "order_124", Status: "created"}, nil)

				m.repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
						require.Equal(t, "100", arg.Amount)
						require.Equal(t, "0", arg.Fee)
						return domain.Transaction{ID: 2, Owner: arg.Owner, Amount: arg.Amount}, nil
					})
			},
			check: func(t *testing.T, result InitiateDepositResult, err error) {
				require.NoError(t, err)
				require.Equal(t, "100", result.TotalCharge)
				require.Equal(t, "0", result.Commission)
			},
		},
		{
			name:   "GatewayDown",
			amount: "100",
			buildStubs: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("0"), nil)
				m.gateway.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(gateway.Order{}, domain.ErrGatewayFailure)
			},
			check: func(t *testing.T, result InitiateDepositResult, err error) {
				require.ErrorIs(t, err, domain.ErrGatewayFailure)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)
			tc.buildStubs(m)

			result, err := svc.InitiateDeposit(context.Background(), "alice", tc.amount)
			tc.check(t, result, err)
		})
	}
}

func TestConfirmDeposit(t *testing.T) {
	pending := domain.Transaction{
		ID:             1,
		Owner:          "alice",
		Kind:           domain.TransactionDeposit,
		Amount:         "100",
		Fee:            "5",
		Status:         domain.TransactionPending,
		GatewayOrderID: "order_123",
	}

	testCases := []struct {
		name       string
		buildStubs func(m mocks)
		check      func(t *testing.T, result domain.DepositTxResult, err error)
	}{
		{
			name: "OK",
			buildStubs: func(m mocks) {
				m.gateway.EXPECT().VerifySignature("order_123", "pay_42", "sig").Return(true)
				m.repo.EXPECT().GetPendingByOrder(gomock.Any(), "alice", "order_123").Return(pending, nil)
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("0"), nil)
				m.gateway.EXPECT().
					CapturePayment(gomock.Any(), "pay_42", int64(10500), "USD").
					Return(gateway.Payment{ID: "pay_42", Status: "captured"}, nil)
				m.repo.EXPECT().
					CompleteDeposit(gomock.Any(), domain.CompleteDepositTxParams{
						TransactionID:    1,
						Owner:            "alice",
						OwnerFullName:    "Alice Client",
						Amount:           "100",
						Fee:              "5",
						GatewayPaymentID: "pay_42",
					}).
					Return(domain.DepositTxResult{
						User: domain.User{Username: "alice", WalletBalance: "100"},
					}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			check: func(t *testing.T, result domain.DepositTxResult, err error) {
				require.NoError(t, err)

				// wallet is credited by the amount, not the total charge
				require.Equal(t, "100", result.User.WalletBalance)
			},
		},
		{
			name: "BadSignature",
			buildStubs: func(m mocks) {
				m.gateway.EXPECT().VerifySignature("order_123", "pay_42", "sig").Return(false)
			},
			check: func(t *testing.T, result domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrGatewayFailure)
			},
		},
		{
			name: "CaptureFailedMarksDepositFailed",
			buildStubs: func(m mocks) {
				m.gateway.EXPECT().VerifySignature("order_123", "pay_42", "sig").Return(true)
				m.repo.EXPECT().GetPendingByOrder(gomock.Any(), "alice", "order_123").Return(pending, nil)
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("0"), nil)
				m.gateway.EXPECT().
					CapturePayment(gomock.Any(), "pay_42", int64(10500), "USD").
					Return(gateway.Payment{}, domain.ErrGatewayFailure)
				m.repo.EXPECT().
					SetStatus(gomock.Any(), domain.TransactionFailed, int64(1)).
					Return(domain.Transaction{}, nil)
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			check: func(t *testing.T, result domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrGatewayFailure)
			},
		},
		{
			name: "NoPendingDeposit",
			buildStubs: func(m mocks) {
				m.gateway.EXPECT().VerifySignature("order_123", "pay_42", "sig").Return(true)
				m.repo.EXPECT().
					GetPendingByOrder(gomock.Any(), "alice", "order_123").
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
			},
			check: func(t *testing.T, result domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrTransactionNotFound)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)
			tc.buildStubs(m)

			result, err := svc.ConfirmDeposit(context.Background(), "alice", "order_123", "pay_42", "sig")
			tc.check(t, result, err)
		})
	}
}

func TestWithdraw(t *testing.T) {
	testCases := []struct {
		name       string
		amount     string
		buildStubs func(m mocks)
		check      func(t *testing.T, result domain.WithdrawTxResult, err error)
	}{
		{
			name:   "OK",
			amount: "50",
			buildStubs: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("200"), nil)

				// the pending entry lands before the payout
				m.repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
						require.Equal(t, domain.TransactionWithdrawal, arg.Kind)
						require.Equal(t, domain.TransactionPending, arg.Status)
						require.Equal(t, "50", arg.Amount)
						require.Equal(t, "1", arg.Fee)
						return domain.Transaction{ID: 9, Status: domain.TransactionPending}, nil
					})

				// disbursed 49 after the 2% fee
				m.gateway.EXPECT().
					CreatePayout(gomock.Any(), int64(4900), "USD", "IMPS", gomock.Any()).
					Return(gateway.Payout{ID: "pout_7", Status: "processed"}, nil)

				m.repo.EXPECT().
					Withdraw(gomock.Any(), domain.WithdrawTxParams{
						TransactionID:    9,
						Owner:            "alice",
						OwnerFullName:    "Alice Client",
						Amount:           "50",
						Fee:              "1",
						Disbursed:        "49",
						PaymentMethod:    "IMPS",
						GatewayPaymentID: "pout_7",
					}).
					Return(domain.WithdrawTxResult{
						User:      domain.User{Username: "alice", WalletBalance: "150"},
						Disbursed: "49",
					}, nil)

				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			check: func(t *testing.T, result domain.WithdrawTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, "150", result.User.WalletBalance)
				require.Equal(t, "49", result.Disbursed)
			},
		},
		{
			name:   "InsufficientBalance",
			amount: "1000",
			buildStubs: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("50"), nil)
				m.notifier.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, arg domain.CreateNotificationParams) {
						require.Equal(t, "alice", arg.Username)
						require.Equal(t, "Withdrawal failed", arg.Title)
					})
			},
			check: func(t *testing.T, result domain.WithdrawTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
		{
			name:       "InvalidAmount",
			amount:     "0",
			buildStubs: func(m mocks) {},
			check: func(t *testing.T, result domain.WithdrawTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:   "PayoutRejected",
			amount: "50",
			buildStubs: func(m mocks) {
				m.users.EXPECT().Get(gomock.Any(), "alice").Return(client("200"), nil)
				m.repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, arg domain.CreateTransactionParams) (domain.Transaction, error) {
						require.Equal(t, domain.TransactionWithdrawal, arg.Kind)
						require.Equal(t, domain.TransactionPending, arg.Status)
						require.Equal(t, "50", arg.Amount)
						return domain.Transaction{ID: 9, Status: domain.TransactionPending}, nil
					})
				m.gateway.EXPECT().
					CreatePayout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(gateway.Payout{}, domain.ErrGatewayFailure)
				m.repo.EXPECT().
					SetStatus(gomock.Any(), domain.TransactionFailed, int64(9)).
					Return(domain.Transaction{ID: 9, Status: domain.TransactionFailed}, nil)
				m.notifier.EXPECT().
					Notify(gomock.Any(), gomock.Any()).
					Do(func(_ interface{}, arg domain.CreateNotificationParams) {
						require.Equal(t, "Withdrawal failed", arg.Title)
					})
			},
			check: func(t *testing.T, result domain.WithdrawTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrGatewayFailure)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)
			tc.buildStubs(m)

			result, err := svc.Withdraw(context.Background(), "alice", tc.amount, "IMPS")
			tc.check(t, result, err)
		})
	}
}

func TestPay(t *testing.T) {
	completed := domain.Project{
		ID:             7,
		Title:          "Legal contract",
		Status:         domain.ProjectCompleted,
		Price:          "120",
		Client:         "alice",
		Translator:     "bob",
		TranslatorName: "Bob Translator",
	}

	testCases := []struct {
		name       string
		username   string
		buildStubs func(m mocks)
		check      func(t *testing.T, result domain.PaymentTxResult, err error)
	}{
		{
			name:     "OKCreditsTranslator",
			username: "alice",
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(completed, nil)
				m.repo.EXPECT().
					Pay(gomock.Any(), domain.PayTxParams{Owner: "alice", ProjectID: 7, Amount: "120"}).
					Return(domain.PaymentTxResult{
						Payment: domain.Transaction{ID: 10, Owner: "alice", Kind: domain.TransactionPayment},
						Earning: domain.Transaction{ID: 11, Owner: "bob", Kind: domain.TransactionEarning},
						User:    domain.User{Username: "alice", WalletBalance: "80"},
					}, nil)

				// both sides get notified
				m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(2)
			},
			check: func(t *testing.T, result domain.PaymentTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, "bob", result.Earning.Owner)
			},
		},
		{
			name:     "NotTheClient",
			username: "mallory",
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(completed, nil)
			},
			check: func(t *testing.T, result domain.PaymentTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrNotProjectParticipant)
			},
		},
		{
			name:     "AlreadyPaid",
			username: "alice",
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(completed, nil)
				m.repo.EXPECT().
					Pay(gomock.Any(), gomock.Any()).
					Return(domain.PaymentTxResult{}, domain.ErrProjectAlreadyPaid)
			},
			check: func(t *testing.T, result domain.PaymentTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrProjectAlreadyPaid)
			},
		},
		{
			name:     "InsufficientBalance",
			username: "alice",
			buildStubs: func(m mocks) {
				m.projects.EXPECT().Get(gomock.Any(), int64(7)).Return(completed, nil)
				m.repo.EXPECT().
					Pay(gomock.Any(), gomock.Any()).
					Return(domain.PaymentTxResult{}, domain.ErrInsufficientBalance)
			},
			check: func(t *testing.T, result domain.PaymentTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupService(t)
			tc.buildStubs(m)

			result, err := svc.Pay(context.Background(), tc.username, 7)
			tc.check(t, result, err)
		})
	}
}

func TestGetBalance(t *testing.T) {
	svc, m := setupService(t)

	user := client("100")
	user.Currency = "INR"
	m.users.EXPECT().Get(gomock.Any(), "alice").Return(user, nil)

	balance, err := svc.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "100", balance.Amount)
	require.Equal(t, "INR", balance.Currency)
	require.Equal(t, "8312", balance.Display)
}

func TestDerivedBalance(t *testing.T) {
	svc, m := setupService(t)

	m.repo.EXPECT().SumByOwner(gomock.Any(), "alice").Return("145.00", nil)

	sum, err := svc.DerivedBalance(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "145.00", sum)
}

func TestPlatformBalance(t *testing.T) {
	svc, m := setupService(t)

	m.repo.EXPECT().PlatformBalance(gomock.Any()).Return("6.00", nil)

	sum, err := svc.PlatformBalance(context.Background())
	require.NoError(t, err)
	require.Equal(t, "6.00", sum)
}

func TestHistory(t *testing.T) {
	svc, m := setupService(t)

	m.repo.EXPECT().
		ListByOwner(gomock.Any(), "alice", int32(10), int32(0)).
		Return(nil, errorspkg.ErrInternal)

	_, err := svc.History(context.Background(), "alice", 10, 0)
	require.ErrorIs(t, err, errorspkg.ErrInternal)
}
