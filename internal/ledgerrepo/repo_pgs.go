// Package ledgerrepo manages repository layer of the wallet ledger.
//
// Transactions are append-only; the only permitted mutation is the status
// transition pending -> completed|failed. Every balance-affecting write runs
// inside a single database transaction together with its linked commission
// entry so that either everything lands or nothing does.
package ledgerrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/userrepo"
	"github.com/linguamarket/lingua/pkg/dbpkg"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns ledger RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns ledger RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const transactionColumns = `
	id, owner, kind, amount, status, description,
	COALESCE(project_id, 0), COALESCE(payment_method, ''), COALESCE(fee, ''),
	COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''),
	COALESCE(commission_amount, ''), created_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Owner,
		&t.Kind,
		&t.Amount,
		&t.Status,
		&t.Description,
		&t.ProjectID,
		&t.PaymentMethod,
		&t.Fee,
		&t.GatewayOrderID,
		&t.GatewayPaymentID,
		&t.CommissionAmount,
		&t.CreatedAt,
	)

	return t, err
}

const createQuery = `
INSERT INTO
    transactions (owner, kind, amount, status, description, project_id,
                  payment_method, fee, gateway_order_id, gateway_payment_id, commission_amount)
VALUES
    ($1, $2, $3, $4, $5, NULLIF($6, 0), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''))
RETURNING` + transactionColumns

// Create appends the ledger entry and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Owner, arg.Kind, arg.Amount, arg.Status, arg.Description, arg.ProjectID,
		arg.PaymentMethod, arg.Fee, arg.GatewayOrderID, arg.GatewayPaymentID, arg.CommissionAmount)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_amount_check" {
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT` + transactionColumns + `
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getPendingByOrderQuery = `
SELECT` + transactionColumns + `
FROM transactions
WHERE owner = $1 AND gateway_order_id = $2 AND status = 'pending'
`

// GetPendingByOrder returns the user's pending transaction for the gateway order.
func (r *RepoPGS) GetPendingByOrder(ctx context.Context, owner, orderID string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getPendingByOrderQuery, owner, orderID))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const setStatusQuery = `
UPDATE transactions
SET status = $1
WHERE id = $2 AND status = 'pending'
RETURNING` + transactionColumns

// SetStatus moves a pending transaction to completed or failed.
func (r *RepoPGS) SetStatus(ctx context.Context, status domain.TransactionStatus, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, setStatusQuery, status, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listByOwnerQuery = `
SELECT` + transactionColumns + `
FROM transactions
WHERE owner = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// ListByOwner returns the owner's transactions, newest first.
func (r *RepoPGS) ListByOwner(ctx context.Context, owner string, limit, offset int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByOwnerQuery, owner, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const sumByOwnerQuery = `
SELECT COALESCE(SUM(
	CASE kind
		WHEN 'deposit' THEN amount
		WHEN 'earning' THEN amount
		WHEN 'refund' THEN amount
		WHEN 'withdrawal' THEN -amount
		WHEN 'payment' THEN -amount
		ELSE 0
	END), 0)
FROM transactions
WHERE owner = $1 AND status = 'completed'
`

// SumByOwner derives the owner's balance from the transaction log. It must
// always agree with the stored wallet balance.
func (r *RepoPGS) SumByOwner(ctx context.Context, owner string) (string, error) {
	l := zerolog.Ctx(ctx)

	var sum string
	if err := r.db.QueryRowContext(ctx, sumByOwnerQuery, owner).Scan(&sum); err != nil {
		l.Error().Err(err).Send()
		return "", errorspkg.ErrInternal
	}

	return sum, nil
}

const platformBalanceQuery = `
SELECT COALESCE(SUM(amount), 0)
FROM transactions
WHERE owner = $1 AND kind = 'commission' AND status = 'completed'
`

// PlatformBalance returns the running total of all completed commission entries.
func (r *RepoPGS) PlatformBalance(ctx context.Context) (string, error) {
	l := zerolog.Ctx(ctx)

	var sum string
	if err := r.db.QueryRowContext(ctx, platformBalanceQuery, domain.PlatformOwner).Scan(&sum); err != nil {
		l.Error().Err(err).Send()
		return "", errorspkg.ErrInternal
	}

	return sum, nil
}

// CompleteDeposit finalizes a captured deposit.
//
// It marks the pending deposit completed, appends the linked platform
// commission entry when a fee applies, and credits the wallet by the deposit
// amount within a single database transaction.
func (r *RepoPGS) CompleteDeposit(ctx context.Context, arg domain.CompleteDepositTxParams) (domain.DepositTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.DepositTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	userRepo := userrepo.NewTxRepoPGS(tx)

	result.Deposit, err = txRepo.SetStatus(ctx, domain.TransactionCompleted, arg.TransactionID)
	if err != nil {
		return result, err
	}

	if arg.Fee != "" && arg.Fee != "0" {
		result.Commission, err = txRepo.Create(ctx, domain.CreateTransactionParams{
			Owner:            domain.PlatformOwner,
			Kind:             domain.TransactionCommission,
			Amount:           arg.Fee,
			Status:           domain.TransactionCompleted,
			Description:      "Platform commission from " + arg.OwnerFullName,
			PaymentMethod:    "gateway_auto_credit",
			GatewayOrderID:   result.Deposit.GatewayOrderID,
			GatewayPaymentID: arg.GatewayPaymentID,
		})
		if err != nil {
			return result, err
		}
	}

	result.User, err = userRepo.AddWalletBalance(ctx, arg.Amount, arg.Owner)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

const completeWithdrawalQuery = `
UPDATE transactions
SET status = 'completed', gateway_payment_id = $2
WHERE id = $1 AND status = 'pending'
RETURNING` + transactionColumns

// Withdraw finalizes a disbursed payout.
//
// It completes the pending withdrawal entry, appends the linked platform
// commission entry and debits the wallet by the full amount within a single
// database transaction. The pending-only guard makes the finalization run at
// most once per withdrawal. The fee is absorbed from the withdrawn amount, so
// the wallet debit equals the requested amount while the disbursement is
// amount - fee.
func (r *RepoPGS) Withdraw(ctx context.Context, arg domain.WithdrawTxParams) (domain.WithdrawTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.WithdrawTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	userRepo := userrepo.NewTxRepoPGS(tx)

	row := tx.QueryRowContext(ctx, completeWithdrawalQuery, arg.TransactionID, arg.GatewayPaymentID)

	result.Withdrawal, err = scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return result, domain.ErrTransactionNotFound
		}

		return result, errorspkg.ErrInternal
	}

	result.Commission, err = txRepo.Create(ctx, domain.CreateTransactionParams{
		Owner:            domain.PlatformOwner,
		Kind:             domain.TransactionCommission,
		Amount:           arg.Fee,
		Status:           domain.TransactionCompleted,
		Description:      "Withdrawal fee commission from " + arg.OwnerFullName,
		PaymentMethod:    "gateway_auto_credit",
		GatewayPaymentID: arg.GatewayPaymentID,
	})
	if err != nil {
		return result, err
	}

	result.User, err = userRepo.AddWalletBalance(ctx, "-"+arg.Amount, arg.Owner)
	if err != nil {
		return result, err
	}

	result.Disbursed = arg.Disbursed

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

const markProjectPaidQuery = `
UPDATE projects
SET paid_at = now(), updated_at = now()
WHERE id = $1 AND paid_at IS NULL
RETURNING title, status, COALESCE(translator, ''), COALESCE(translator_name, '')
`

// Pay debits the client's wallet for a project.
//
// The project is marked paid inside the same transaction, which guards
// against a double payment. When the project is already completed with an
// assigned translator, the matching earning entry credits the translator
// atomically with the debit; the earning is therefore created exactly once.
func (r *RepoPGS) Pay(ctx context.Context, arg domain.PayTxParams) (domain.PaymentTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PaymentTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	var (
		title          string
		status         domain.ProjectStatus
		translator     string
		translatorName string
	)

	row := tx.QueryRowContext(ctx, markProjectPaidQuery, arg.ProjectID)
	if err := row.Scan(&title, &status, &translator, &translatorName); err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return result, domain.ErrProjectAlreadyPaid
		}

		return result, errorspkg.ErrInternal
	}

	txRepo := NewTxRepoPGS(tx)
	userRepo := userrepo.NewTxRepoPGS(tx)

	result.Payment, err = txRepo.Create(ctx, domain.CreateTransactionParams{
		Owner:       arg.Owner,
		Kind:        domain.TransactionPayment,
		Amount:      arg.Amount,
		Status:      domain.TransactionCompleted,
		Description: `Payment for "` + title + `"`,
		ProjectID:   arg.ProjectID,
	})
	if err != nil {
		return result, err
	}

	result.User, err = userRepo.AddWalletBalance(ctx, "-"+arg.Amount, arg.Owner)
	if err != nil {
		return result, err
	}

	if status == domain.ProjectCompleted && translator != "" {
		result.Earning, err = txRepo.Create(ctx, domain.CreateTransactionParams{
			Owner:       translator,
			Kind:        domain.TransactionEarning,
			Amount:      arg.Amount,
			Status:      domain.TransactionCompleted,
			Description: `Earnings from "` + title + `"`,
			ProjectID:   arg.ProjectID,
		})
		if err != nil {
			return result, err
		}

		if _, err = userRepo.AddWalletBalance(ctx, arg.Amount, translator); err != nil {
			return result, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}
