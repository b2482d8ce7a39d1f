// Package ledgerservice manages business logic of the wallet ledger.
//
// All stored amounts are denominated in USD, the settlement currency. A
// client deposit carries a 5% platform commission charged on top of the
// credited amount; a withdrawal carries a 2% fee absorbed from the withdrawn
// amount. Both fees become platform commission entries linked to the
// originating transaction.
package ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/gateway"
	"github.com/linguamarket/lingua/pkg/currencypkg"
)

var (
	depositCommissionRate = decimal.RequireFromString("0.05")
	withdrawalFeeRate     = decimal.RequireFromString("0.02")
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=ledgerservice

// Repo provides data access layer to the ledger service.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	GetPendingByOrder(ctx context.Context, owner, orderID string) (domain.Transaction, error)
	SetStatus(ctx context.Context, status domain.TransactionStatus, id int64) (domain.Transaction, error)
	ListByOwner(ctx context.Context, owner string, limit, offset int32) ([]domain.Transaction, error)
	SumByOwner(ctx context.Context, owner string) (string, error)
	PlatformBalance(ctx context.Context) (string, error)
	CompleteDeposit(ctx context.Context, arg domain.CompleteDepositTxParams) (domain.DepositTxResult, error)
	Withdraw(ctx context.Context, arg domain.WithdrawTxParams) (domain.WithdrawTxResult, error)
	Pay(ctx context.Context, arg domain.PayTxParams) (domain.PaymentTxResult, error)
}

// UserGetter provides user lookups to the ledger service.
type UserGetter interface {
	Get(ctx context.Context, username string) (domain.User, error)
}

// ProjectGetter provides project lookups to the ledger service.
type ProjectGetter interface {
	Get(ctx context.Context, id int64) (domain.Project, error)
}

// PaymentGateway provides payment gateway access to the ledger service.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (gateway.Order, error)
	CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (gateway.Payment, error)
	CreatePayout(ctx context.Context, amount int64, currency, mode, reference string) (gateway.Payout, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Notifier appends notifications to user feeds. Notification failures never
// fail the financial operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, arg domain.CreateNotificationParams)
}

// Service facilitates ledger service logic.
type Service struct {
	repo     Repo
	users    UserGetter
	projects ProjectGetter
	gateway  PaymentGateway
	notifier Notifier
}

func New(repo Repo, users UserGetter, projects ProjectGetter, gw PaymentGateway, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		projects: projects,
		gateway:  gw,
		notifier: notifier,
	}
}

func parseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return d, domain.ErrInvalidAmount
	}

	if !d.IsPositive() {
		return d, domain.ErrNegativeAmount
	}

	return d.Round(2), nil
}

// InitiateDepositResult describes the pending deposit awaiting gateway capture.
type InitiateDepositResult struct {
	Transaction domain.Transaction `json:"transaction"`
	OrderID     string             `json:"order_id"`
	// TotalCharge is the amount plus the platform commission, which the
	// client pays at the gateway.
	TotalCharge string `json:"total_charge"`
	Commission  string `json:"commission"`
}

// InitiateDeposit opens a gateway order for the amount plus the client's 5%
// platform commission and records the pending deposit. The wallet is not
// credited until the capture is confirmed.
func (s *Service) InitiateDeposit(ctx context.Context, username, amount string) (InitiateDepositResult, error) {
	l := zerolog.Ctx(ctx)

	var result InitiateDepositResult

	d, err := parseAmount(amount)
	if err != nil {
		return result, err
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return result, err
	}

	// The 5% commission applies to client deposits only; translators top up
	// fee-free.
	commission := decimal.Zero
	if user.Role == domain.RoleClient {
		commission = d.Mul(depositCommissionRate).Round(2)
	}
	total := d.Add(commission)

	receipt := fmt.Sprintf("dep_%s_%d", username, time.Now().UnixNano())

	order, err := s.gateway.CreateOrder(ctx, currencypkg.ToMinorUnits(total, currencypkg.Base), currencypkg.Base, receipt)
	if err != nil {
		l.Info().Str("username", username).Msg("deposit order rejected by gateway")
		return result, err
	}

	result.Transaction, err = s.repo.Create(ctx, domain.CreateTransactionParams{
		Owner:            username,
		Kind:             domain.TransactionDeposit,
		Amount:           d.String(),
		Status:           domain.TransactionPending,
		Description:      "Wallet deposit via payment gateway",
		PaymentMethod:    "gateway",
		Fee:              commission.String(),
		GatewayOrderID:   order.ID,
		CommissionAmount: commission.String(),
	})
	if err != nil {
		return result, err
	}

	result.OrderID = order.ID
	result.TotalCharge = total.String()
	result.Commission = commission.String()

	return result, nil
}

// ConfirmDeposit verifies the capture signature, captures the payment and
// credits the wallet. A failed capture marks the deposit failed and leaves
// the wallet untouched.
func (s *Service) ConfirmDeposit(ctx context.Context, username, orderID, paymentID, signature string) (domain.DepositTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.DepositTxResult

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		l.Info().Str("username", username).Str("order_id", orderID).Msg("deposit signature mismatch")
		return result, domain.ErrGatewayFailure
	}

	pending, err := s.repo.GetPendingByOrder(ctx, username, orderID)
	if err != nil {
		return result, err
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return result, err
	}

	amount := decimal.RequireFromString(pending.Amount)
	fee := decimal.RequireFromString(pending.Fee)
	total := amount.Add(fee)

	if _, err := s.gateway.CapturePayment(ctx, paymentID, currencypkg.ToMinorUnits(total, currencypkg.Base), currencypkg.Base); err != nil {
		if _, failErr := s.repo.SetStatus(ctx, domain.TransactionFailed, pending.ID); failErr != nil {
			l.Error().Err(failErr).Int64("transaction_id", pending.ID).Msg("marking deposit failed")
		}

		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username: username,
			Kind:     domain.NotificationStatusChange,
			Title:    "Deposit failed",
			Message:  fmt.Sprintf("Your deposit of %s could not be captured.", currencypkg.Format(amount, user.Currency)),
		})

		return result, err
	}

	result, err = s.repo.CompleteDeposit(ctx, domain.CompleteDepositTxParams{
		TransactionID:    pending.ID,
		Owner:            username,
		OwnerFullName:    user.FullName,
		Amount:           pending.Amount,
		Fee:              pending.Fee,
		GatewayPaymentID: paymentID,
	})
	if err != nil {
		return result, err
	}

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username: username,
		Kind:     domain.NotificationStatusChange,
		Title:    "Deposit completed",
		Message:  fmt.Sprintf("%s has been added to your wallet.", currencypkg.Format(amount, user.Currency)),
	})

	return result, nil
}

// Withdraw disburses amount less the 2% fee to the user's payout method and
// debits the wallet by the full amount. The withdrawal is recorded pending
// before the payout is created and finalized after it succeeds, mirroring the
// deposit flow.
func (s *Service) Withdraw(ctx context.Context, username, amount, method string) (domain.WithdrawTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.WithdrawTxResult

	d, err := parseAmount(amount)
	if err != nil {
		return result, err
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return result, err
	}

	balance := decimal.RequireFromString(user.WalletBalance)
	if balance.LessThan(d) {
		l.Info().Str("username", username).Msg("withdrawal exceeds balance")

		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username: username,
			Kind:     domain.NotificationStatusChange,
			Title:    "Withdrawal failed",
			Message:  fmt.Sprintf("Insufficient balance to withdraw %s.", currencypkg.Format(d, user.Currency)),
		})

		return result, domain.ErrInsufficientBalance
	}

	fee := d.Mul(withdrawalFeeRate).Round(2)
	disbursed := d.Sub(fee)

	// The pending entry lands before the payout so a disbursement can never
	// leave the ledger without a trace.
	pending, err := s.repo.Create(ctx, domain.CreateTransactionParams{
		Owner:         username,
		Kind:          domain.TransactionWithdrawal,
		Amount:        d.String(),
		Status:        domain.TransactionPending,
		Description:   "Withdrawal to " + method,
		PaymentMethod: method,
		Fee:           fee.String(),
	})
	if err != nil {
		return result, err
	}

	reference := fmt.Sprintf("wd_%s_%d", username, time.Now().UnixNano())

	payout, err := s.gateway.CreatePayout(ctx, currencypkg.ToMinorUnits(disbursed, currencypkg.Base), currencypkg.Base, method, reference)
	if err != nil {
		if _, serr := s.repo.SetStatus(ctx, domain.TransactionFailed, pending.ID); serr != nil {
			l.Error().Err(serr).Int64("transaction_id", pending.ID).Msg("marking withdrawal failed")
		}

		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username: username,
			Kind:     domain.NotificationStatusChange,
			Title:    "Withdrawal failed",
			Message:  "The payout could not be processed. Your balance is unchanged.",
		})

		return result, err
	}

	result, err = s.repo.Withdraw(ctx, domain.WithdrawTxParams{
		TransactionID:    pending.ID,
		Owner:            username,
		OwnerFullName:    user.FullName,
		Amount:           d.String(),
		Fee:              fee.String(),
		Disbursed:        disbursed.String(),
		PaymentMethod:    method,
		GatewayPaymentID: payout.ID,
	})
	if err != nil {
		return result, err
	}

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username: username,
		Kind:     domain.NotificationStatusChange,
		Title:    "Withdrawal processed",
		Message:  fmt.Sprintf("%s is on its way to your %s account.", currencypkg.Format(disbursed, user.Currency), method),
	})

	return result, nil
}

// Pay debits the client's wallet for the project price. When the project is
// already completed the assigned translator is credited in the same database
// transaction, exactly once per project.
func (s *Service) Pay(ctx context.Context, username string, projectID int64) (domain.PaymentTxResult, error) {
	var result domain.PaymentTxResult

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return result, err
	}

	if project.Client != username {
		return result, domain.ErrNotProjectParticipant
	}

	result, err = s.repo.Pay(ctx, domain.PayTxParams{
		Owner:     username,
		ProjectID: projectID,
		Amount:    project.Price,
	})
	if err != nil {
		return result, err
	}

	price := decimal.RequireFromString(project.Price)

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username:  username,
		Kind:      domain.NotificationStatusChange,
		Title:     "Payment sent",
		Message:   fmt.Sprintf("You paid %s for %q.", currencypkg.Format(price, currencypkg.Base), project.Title),
		ProjectID: projectID,
	})

	if result.Earning.ID != 0 {
		s.notifier.Notify(ctx, domain.CreateNotificationParams{
			Username:  result.Earning.Owner,
			Kind:      domain.NotificationStatusChange,
			Title:     "Payment received",
			Message:   fmt.Sprintf("You earned %s for %q.", currencypkg.Format(price, currencypkg.Base), project.Title),
			ProjectID: projectID,
		})
	}

	return result, nil
}

// Balance describes the user's wallet in the settlement currency and the
// user's display currency.
type Balance struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Display   string `json:"display"`
	Formatted string `json:"formatted"`
}

// GetBalance returns the stored wallet balance converted to the user's
// display currency.
func (s *Service) GetBalance(ctx context.Context, username string) (Balance, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return Balance{}, err
	}

	stored := decimal.RequireFromString(user.WalletBalance)
	display := currencypkg.Convert(stored, currencypkg.Base, user.Currency)

	return Balance{
		Amount:    stored.String(),
		Currency:  user.Currency,
		Display:   display.String(),
		Formatted: currencypkg.Format(display, user.Currency),
	}, nil
}

// DerivedBalance recomputes the balance from the transaction log. It must
// equal the stored balance; a mismatch means the ledger lost an entry.
func (s *Service) DerivedBalance(ctx context.Context, username string) (string, error) {
	return s.repo.SumByOwner(ctx, username)
}

// History returns the user's transactions, newest first.
func (s *Service) History(ctx context.Context, username string, limit, offset int32) ([]domain.Transaction, error) {
	return s.repo.ListByOwner(ctx, username, limit, offset)
}

// PlatformBalance returns the total commission the platform has collected.
func (s *Service) PlatformBalance(ctx context.Context) (string, error) {
	return s.repo.PlatformBalance(ctx)
}

// PlatformHistory returns the platform's commission entries, newest first.
func (s *Service) PlatformHistory(ctx context.Context, limit, offset int32) ([]domain.Transaction, error) {
	return s.repo.ListByOwner(ctx, domain.PlatformOwner, limit, offset)
}
