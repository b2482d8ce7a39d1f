package domain

import (
	"errors"
	"time"
)

var (
	// ErrProjectNotFound indicates that the project is not found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectAlreadyAssigned indicates that the project already has a translator.
	ErrProjectAlreadyAssigned = errors.New("project already assigned")
	// ErrProjectAlreadyPaid indicates that the project has already been paid for.
	ErrProjectAlreadyPaid = errors.New("project already paid")
	// ErrProjectStatusFinal indicates an attempted transition out of a terminal status.
	ErrProjectStatusFinal = errors.New("project status is final")
	// ErrNoEligibleTranslator indicates that no translator can take the project.
	// It is a normal matching outcome, not a failure.
	ErrNoEligibleTranslator = errors.New("no eligible translator")
)

// ProjectStatus enumerates the project state machine states.
type ProjectStatus string

// Project statuses. The normal flow is
// pending -> assigned -> in-progress -> review -> completed;
// cancelled is reachable from any non-terminal state.
const (
	ProjectPending    ProjectStatus = "pending"
	ProjectAssigned   ProjectStatus = "assigned"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s ProjectStatus) Terminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

// Project represents one translation job.
type Project struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	SourceLanguage string        `json:"source_language"`
	TargetLanguage string        `json:"target_language"`
	Status         ProjectStatus `json:"status"`
	WordCount      int32         `json:"word_count"`
	Deadline       time.Time     `json:"deadline"`
	Price          string        `json:"price"`
	Client         string        `json:"client"`
	Translator     string        `json:"translator,omitempty"`
	TranslatorName string        `json:"translator_name,omitempty"`
	AutoAssigned   bool          `json:"auto_assigned"`
	MatchScore     float64       `json:"match_score,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	AssignedAt     time.Time     `json:"assigned_at,omitempty"`
	PaidAt         time.Time     `json:"paid_at,omitempty"`
}

// CreateProjectParams is the input data to create a project.
type CreateProjectParams struct {
	Title          string    `json:"title"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	WordCount      int32     `json:"word_count"`
	Deadline       time.Time `json:"deadline"`
	Price          string    `json:"price"`
	Client         string    `json:"client"`
}

// AssignProjectParams is the input data for the assignment transaction.
type AssignProjectParams struct {
	ProjectID      int64
	ProfileID      int32
	Translator     string
	TranslatorName string
	MatchScore     float64
}

// AssignTxResult is the result of the assignment transaction.
type AssignTxResult struct {
	Project Project           `json:"project"`
	Profile TranslatorProfile `json:"profile"`
}

// CompleteTxResult is the result of the completion transaction.
type CompleteTxResult struct {
	Project Project           `json:"project"`
	Profile TranslatorProfile `json:"profile"`
}
