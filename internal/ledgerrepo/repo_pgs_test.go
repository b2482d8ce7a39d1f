package ledgerrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/userrepo"
	"github.com/linguamarket/lingua/pkg/passpkg"
	"github.com/linguamarket/lingua/pkg/randompkg"

	_ "github.com/lib/pq"
)

var (
	testDB       *sql.DB
	testRepo     *RepoPGS
	testUserRepo *userrepo.RepoPGS
)

// The tests need a migrated database. They are skipped when TEST_DB_DSN
// is not set.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn != "" {
		var err error

		testDB, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Fatal("cannot connect to db:", err)
		}

		testRepo = NewRepoPGS(testDB)
		testUserRepo = userrepo.NewRepoPGS(testDB)
	}

	os.Exit(m.Run())
}

func skipWithoutDB(t *testing.T) {
	t.Helper()

	if testDB == nil {
		t.Skip("TEST_DB_DSN is not set")
	}
}

func createRandomUser(t *testing.T, role domain.Role) domain.User {
	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	require.NoError(t, err)

	user, err := testUserRepo.Create(context.Background(), domain.CreateUserParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.Owner(),
		Email:          randompkg.Email(),
		Role:           role,
		Currency:       "USD",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user)

	return user
}

func createPendingDeposit(t *testing.T, owner, amount, fee string) domain.Transaction {
	transaction, err := testRepo.Create(context.Background(), domain.CreateTransactionParams{
		Owner:            owner,
		Kind:             domain.TransactionDeposit,
		Amount:           amount,
		Status:           domain.TransactionPending,
		Description:      "Wallet deposit",
		Fee:              fee,
		GatewayOrderID:   "order_" + randompkg.String(10),
		CommissionAmount: fee,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TransactionPending, transaction.Status)
	require.Equal(t, amount, transaction.Amount)

	return transaction
}

func createPendingWithdrawal(t *testing.T, owner, amount, fee, method string) domain.Transaction {
	transaction, err := testRepo.Create(context.Background(), domain.CreateTransactionParams{
		Owner:         owner,
		Kind:          domain.TransactionWithdrawal,
		Amount:        amount,
		Status:        domain.TransactionPending,
		Description:   "Withdrawal to " + method,
		PaymentMethod: method,
		Fee:           fee,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TransactionPending, transaction.Status)

	return transaction
}

func TestCreateAndGet(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleClient)
	created := createPendingDeposit(t, user.Username, "100", "5")

	got, err := testRepo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, user.Username, got.Owner)
	require.Equal(t, domain.TransactionDeposit, got.Kind)
	require.Equal(t, "5", got.Fee)
	require.NotZero(t, got.CreatedAt)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleClient)

	_, err := testRepo.Create(context.Background(), domain.CreateTransactionParams{
		Owner:  user.Username,
		Kind:   domain.TransactionDeposit,
		Amount: "0",
		Status: domain.TransactionPending,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestGetPendingByOrder(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleClient)
	created := createPendingDeposit(t, user.Username, "100", "5")

	got, err := testRepo.GetPendingByOrder(context.Background(), user.Username, created.GatewayOrderID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = testRepo.GetPendingByOrder(context.Background(), user.Username, "order_unknown")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestSetStatusOnlyMutatesPending(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleClient)
	created := createPendingDeposit(t, user.Username, "100", "5")

	completed, err := testRepo.SetStatus(context.Background(), domain.TransactionCompleted, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionCompleted, completed.Status)

	_, err = testRepo.SetStatus(context.Background(), domain.TransactionFailed, created.ID)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestCompleteDepositCreditsOnce(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleClient)
	created := createPendingDeposit(t, user.Username, "100", "5")

	arg := domain.CompleteDepositTxParams{
		TransactionID:    created.ID,
		Owner:            user.Username,
		OwnerFullName:    user.FullName,
		Amount:           "100",
		Fee:              "5",
		GatewayPaymentID: "pay_" + randompkg.String(10),
	}

	result, err := testRepo.CompleteDeposit(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionCompleted, result.Deposit.Status)
	require.Equal(t, "100", result.User.WalletBalance)
	require.Equal(t, domain.PlatformOwner, result.Commission.Owner)
	require.Equal(t, "5", result.Commission.Amount)

	// The repeated completion finds no pending entry and leaves the wallet alone.
	_, err = testRepo.CompleteDeposit(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	got, err := testUserRepo.Get(context.Background(), user.Username)
	require.NoError(t, err)
	require.Equal(t, "100", got.WalletBalance)
}

func TestWithdrawDebitsFullAmount(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleTranslator)
	_, err := testUserRepo.AddWalletBalance(context.Background(), "200", user.Username)
	require.NoError(t, err)

	pending := createPendingWithdrawal(t, user.Username, "50", "1", "IMPS")

	arg := domain.WithdrawTxParams{
		TransactionID:    pending.ID,
		Owner:            user.Username,
		OwnerFullName:    user.FullName,
		Amount:           "50",
		Fee:              "1",
		Disbursed:        "49",
		PaymentMethod:    "IMPS",
		GatewayPaymentID: "pout_" + randompkg.String(10),
	}

	result, err := testRepo.Withdraw(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, "49", result.Disbursed)
	require.Equal(t, "150", result.User.WalletBalance)
	require.Equal(t, domain.TransactionCompleted, result.Withdrawal.Status)
	require.Equal(t, arg.GatewayPaymentID, result.Withdrawal.GatewayPaymentID)
	require.Equal(t, domain.PlatformOwner, result.Commission.Owner)

	// The repeated finalization finds no pending entry and leaves the wallet alone.
	_, err = testRepo.Withdraw(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)

	got, err := testUserRepo.Get(context.Background(), user.Username)
	require.NoError(t, err)
	require.Equal(t, "150", got.WalletBalance)
}

func TestWithdrawRejectsOverdraft(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleTranslator)
	pending := createPendingWithdrawal(t, user.Username, "50", "1", "IMPS")

	_, err := testRepo.Withdraw(context.Background(), domain.WithdrawTxParams{
		TransactionID: pending.ID,
		Owner:         user.Username,
		OwnerFullName: user.FullName,
		Amount:        "50",
		Fee:           "1",
		Disbursed:     "49",
		PaymentMethod: "IMPS",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// the rolled back entry stays pending
	got, err := testRepo.Get(context.Background(), pending.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionPending, got.Status)
}

func TestSumByOwner(t *testing.T) {
	skipWithoutDB(t)

	user := createRandomUser(t, domain.RoleClient)

	deposit := createPendingDeposit(t, user.Username, "100", "5")
	_, err := testRepo.CompleteDeposit(context.Background(), domain.CompleteDepositTxParams{
		TransactionID: deposit.ID,
		Owner:         user.Username,
		OwnerFullName: user.FullName,
		Amount:        "100",
		Fee:           "5",
	})
	require.NoError(t, err)

	withdrawal := createPendingWithdrawal(t, user.Username, "30", "0.60", "UPI")
	_, err = testRepo.Withdraw(context.Background(), domain.WithdrawTxParams{
		TransactionID: withdrawal.ID,
		Owner:         user.Username,
		OwnerFullName: user.FullName,
		Amount:        "30",
		Fee:           "0.60",
		Disbursed:     "29.40",
		PaymentMethod: "UPI",
	})
	require.NoError(t, err)

	sum, err := testRepo.SumByOwner(context.Background(), user.Username)
	require.NoError(t, err)
	require.Equal(t, "70", sum)
}
