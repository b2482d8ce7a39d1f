// Package userservice manages business logic of marketplace users.
package userservice

import (
	"context"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/currencypkg"
	"github.com/linguamarket/lingua/pkg/passpkg"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=userservice

// Repo provides data access layer to the user service.
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	CreateTranslator(ctx context.Context, userArg domain.CreateUserParams, profileArg domain.CreateProfileParams) (domain.User, error)
	Get(ctx context.Context, username string) (domain.User, error)
	SetCurrency(ctx context.Context, currency, username string) (domain.User, error)
}

// CurrencyResolver picks a default display currency from the signup IP.
type CurrencyResolver interface {
	Currency(ctx context.Context, ip string) string
}

// Notifier appends notifications to user feeds.
type Notifier interface {
	Notify(ctx context.Context, arg domain.CreateNotificationParams)
}

// Service facilitates user service logic.
type Service struct {
	repo     Repo
	resolver CurrencyResolver
	notifier Notifier
}

func New(repo Repo, resolver CurrencyResolver, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
	}
}

// CreateParams is the input data to register a user.
type CreateParams struct {
	Username string
	Password string
	FullName string
	Email    string
	Role     domain.Role
	ClientIP string
}

func userWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		Username:      u.Username,
		FullName:      u.FullName,
		Email:         u.Email,
		Role:          u.Role,
		Currency:      u.Currency,
		WalletBalance: u.WalletBalance,
		CreatedAt:     u.CreatedAt,
	}
}

// Create registers the user with a bcrypt password hash and a display
// currency resolved from the signup IP. A translator is created together
// with a starter directory profile in one database transaction, so matching
// sees every registered translator.
func (s *Service) Create(ctx context.Context, arg CreateParams) (domain.UserWithoutPassword, error) {
	var result domain.UserWithoutPassword

	hashed, err := passpkg.Hash(arg.Password)
	if err != nil {
		return result, err
	}

	userArg := domain.CreateUserParams{
		Username:       arg.Username,
		HashedPassword: hashed,
		FullName:       arg.FullName,
		Email:          arg.Email,
		Role:           arg.Role,
		Currency:       s.resolver.Currency(ctx, arg.ClientIP),
	}

	var user domain.User

	if arg.Role == domain.RoleTranslator {
		user, err = s.repo.CreateTranslator(ctx, userArg, domain.CreateProfileParams{
			Username:              arg.Username,
			Languages:             []string{"English", "Spanish"},
			Rating:                5.0,
			MaxConcurrentProjects: 3,
			PricePerWord:          "0.10",
			ResponseTimeHours:     4,
		})
	} else {
		user, err = s.repo.Create(ctx, userArg)
	}
	if err != nil {
		return result, err
	}

	return userWithoutPassword(user), nil
}

// Get returns the user with the given username.
func (s *Service) Get(ctx context.Context, username string) (domain.User, error) {
	return s.repo.Get(ctx, username)
}

// CheckPassword verifies the user's password for login.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.UserWithoutPassword, error) {
	var result domain.UserWithoutPassword

	user, err := s.repo.Get(ctx, username)
	if err != nil {
		return result, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		return result, domain.ErrWrongPassword
	}

	return userWithoutPassword(user), nil
}

// ChangeCurrency switches the user's display currency. The wallet stays
// denominated in the settlement currency; only rendering changes.
func (s *Service) ChangeCurrency(ctx context.Context, username, currency string) (domain.UserWithoutPassword, error) {
	var result domain.UserWithoutPassword

	user, err := s.repo.SetCurrency(ctx, currency, username)
	if err != nil {
		return result, err
	}

	c, _ := currencypkg.Get(currency)

	s.notifier.Notify(ctx, domain.CreateNotificationParams{
		Username: username,
		Kind:     domain.NotificationStatusChange,
		Title:    "Currency updated",
		Message:  "Your balances are now shown in " + c.Name + " (" + currency + ").",
	})

	return userWithoutPassword(user), nil
}
