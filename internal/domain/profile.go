package domain

import (
	"errors"
	"time"
)

var (
	// ErrProfileNotFound indicates that the translator profile is not found.
	ErrProfileNotFound = errors.New("translator profile not found")
	// ErrProfileAlreadyExists indicates that the translator already has a profile.
	ErrProfileAlreadyExists = errors.New("translator profile already exists")
	// ErrTranslatorUnavailable indicates that the translator has no spare capacity.
	ErrTranslatorUnavailable = errors.New("translator has no spare capacity")
)

// TranslatorProfile holds the directory entry for one translator.
//
// Invariant: 0 <= ActiveProjects <= MaxConcurrentProjects. The repository
// statements enforce it on every mutation.
type TranslatorProfile struct {
	ID                    int32     `json:"id"`
	Username              string    `json:"username"`
	Languages             []string  `json:"languages"`
	Specializations       []string  `json:"specializations"`
	Rating                float64   `json:"rating"`
	CompletedProjects     int32     `json:"completed_projects"`
	ActiveProjects        int32     `json:"active_projects"`
	MaxConcurrentProjects int32     `json:"max_concurrent_projects"`
	IsAvailable           bool      `json:"is_available"`
	PricePerWord          string    `json:"price_per_word"`
	ResponseTimeHours     float64   `json:"response_time_hours"`
	CreatedAt             time.Time `json:"created_at,omitempty"`
}

// CreateProfileParams is the input data to create a translator profile.
type CreateProfileParams struct {
	Username              string   `json:"username"`
	Languages             []string `json:"languages"`
	Specializations       []string `json:"specializations"`
	Rating                float64  `json:"rating"`
	MaxConcurrentProjects int32    `json:"max_concurrent_projects"`
	PricePerWord          string   `json:"price_per_word"`
	ResponseTimeHours     float64  `json:"response_time_hours"`
}
