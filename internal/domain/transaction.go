package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInsufficientBalance indicates that the wallet does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrGatewayFailure indicates that the payment gateway rejected the operation.
	ErrGatewayFailure = errors.New("payment gateway failure")
)

// TransactionKind enumerates the ledger entry kinds.
type TransactionKind string

// Ledger entry kinds.
const (
	TransactionDeposit    TransactionKind = "deposit"
	TransactionWithdrawal TransactionKind = "withdrawal"
	TransactionPayment    TransactionKind = "payment"
	TransactionEarning    TransactionKind = "earning"
	TransactionRefund     TransactionKind = "refund"
	TransactionCommission TransactionKind = "commission"
)

// TransactionStatus enumerates the ledger entry lifecycle states.
type TransactionStatus string

// Ledger entry statuses. The only legal mutation of a transaction is the
// status transition pending -> completed|failed.
const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry.
//
// Amount is positive and denominated in the USD settlement currency.
// Owner is a username or PlatformOwner.
type Transaction struct {
	ID               int64             `json:"id"`
	Owner            string            `json:"owner"`
	Kind             TransactionKind   `json:"kind"`
	Amount           string            `json:"amount"`
	Status           TransactionStatus `json:"status"`
	Description      string            `json:"description"`
	ProjectID        int64             `json:"project_id,omitempty"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	Fee              string            `json:"fee,omitempty"`
	GatewayOrderID   string            `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string            `json:"gateway_payment_id,omitempty"`
	CommissionAmount string            `json:"commission_amount,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// CreateTransactionParams is the input data to append a ledger entry.
type CreateTransactionParams struct {
	Owner            string
	Kind             TransactionKind
	Amount           string
	Status           TransactionStatus
	Description      string
	ProjectID        int64
	PaymentMethod    string
	Fee              string
	GatewayOrderID   string
	GatewayPaymentID string
	CommissionAmount string
}

// CompleteDepositTxParams is the input data for the deposit completion transaction.
type CompleteDepositTxParams struct {
	TransactionID    int64
	Owner            string
	OwnerFullName    string
	Amount           string
	Fee              string
	GatewayPaymentID string
}

// WithdrawTxParams is the input data for the withdrawal transaction.
type WithdrawTxParams struct {
	TransactionID    int64
	Owner            string
	OwnerFullName    string
	Amount           string
	Fee              string
	Disbursed        string
	PaymentMethod    string
	GatewayPaymentID string
}

// PayTxParams is the input data for the project payment transaction.
type PayTxParams struct {
	Owner     string
	ProjectID int64
	Amount    string
}

// DepositTxResult is the result of completing a deposit.
type DepositTxResult struct {
	Deposit    Transaction `json:"deposit"`
	Commission Transaction `json:"commission,omitempty"`
	User       User        `json:"user"`
}

// WithdrawTxResult is the result of the withdrawal transaction.
type WithdrawTxResult struct {
	Withdrawal Transaction `json:"withdrawal"`
	Commission Transaction `json:"commission"`
	User       User        `json:"user"`
	// Disbursed is the amount actually sent to the payment method
	// (amount less the withdrawal fee).
	Disbursed string `json:"disbursed"`
}

// PaymentTxResult is the result of the project payment transaction.
type PaymentTxResult struct {
	Payment Transaction `json:"payment"`
	Earning Transaction `json:"earning,omitempty"`
	User    User        `json:"user"`
}
