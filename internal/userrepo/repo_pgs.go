// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/profilerepo"
	"github.com/linguamarket/lingua/pkg/dbpkg"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns user RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns user RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    users (username, hashed_password, full_name, email, role, currency, wallet_balance)
VALUES
    ($1, $2, $3, $4, $5, $6, 0)
RETURNING username, hashed_password, full_name, email, role, currency, wallet_balance, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Username, arg.HashedPassword, arg.FullName, arg.Email, arg.Role, arg.Currency)

	var u domain.User

	err := row.Scan(
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.Email,
		&u.Role,
		&u.Currency,
		&u.WalletBalance,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "users_pkey":
				return u, domain.ErrUsernameAlreadyExists
			case "users_email_key":
				return u, domain.ErrEmailAlreadyExists
			}
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

// CreateTranslator creates the translator together with the starter directory
// profile within a single database transaction. Either both rows land or
// neither does, so a registered translator is always visible to matching.
func (r *RepoPGS) CreateTranslator(ctx context.Context, userArg domain.CreateUserParams, profileArg domain.CreateProfileParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var u domain.User

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return u, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	u, err = NewTxRepoPGS(tx).Create(ctx, userArg)
	if err != nil {
		return u, err
	}

	if _, err := profilerepo.NewRepoPGS(tx).Create(ctx, profileArg); err != nil {
		return u, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getQuery = `
SELECT
	username, hashed_password, full_name, email, role, currency, wallet_balance, created_at
FROM users
WHERE username = $1
`

// Get returns the user with the given username.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, username)

	var u domain.User

	err := row.Scan(
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.Email,
		&u.Role,
		&u.Currency,
		&u.WalletBalance,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const addWalletBalanceQuery = `
UPDATE users
SET wallet_balance = wallet_balance + $1
WHERE username = $2
RETURNING username, hashed_password, full_name, email, role, currency, wallet_balance, created_at
`

// AddWalletBalance changes the user's wallet balance and returns the changed user.
// The amount may be negative; the balance check constraint rejects overdrafts.
func (r *RepoPGS) AddWalletBalance(ctx context.Context, amount, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addWalletBalanceQuery, amount, username)

	var u domain.User

	err := row.Scan(
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.Email,
		&u.Role,
		&u.Currency,
		&u.WalletBalance,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "users_wallet_balance_check" {
				return u, domain.ErrInsufficientBalance
			}
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const setCurrencyQuery = `
UPDATE users
SET currency = $1
WHERE username = $2
RETURNING username, hashed_password, full_name, email, role, currency, wallet_balance, created_at
`

// SetCurrency changes the user's display currency and returns the changed user.
func (r *RepoPGS) SetCurrency(ctx context.Context, currency, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setCurrencyQuery, currency, username)

	var u domain.User

	err := row.Scan(
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.Email,
		&u.Role,
		&u.Currency,
		&u.WalletBalance,
		&u.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}
