// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrUsernameAlreadyExists indicates that the user with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrEmailAlreadyExists indicates that the user with the given email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
)

// Role separates the two kinds of marketplace users.
type Role string

// Supported user roles.
const (
	RoleClient     Role = "client"
	RoleTranslator Role = "translator"
)

// PlatformOwner is the sentinel transaction owner for platform commission records.
const PlatformOwner = "platform"

// User holds marketplace user data.
//
// WalletBalance is the stored source of truth, denominated in the USD
// settlement currency. Currency is the display currency only.
type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashed_password"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Currency       string    `json:"currency"`
	WalletBalance  string    `json:"wallet_balance"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	Currency       string `json:"currency"`
}

// UserWithoutPassword is User data excluding password data.
type UserWithoutPassword struct {
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	Currency      string    `json:"currency"`
	WalletBalance string    `json:"wallet_balance"`
	CreatedAt     time.Time `json:"created_at"`
}
