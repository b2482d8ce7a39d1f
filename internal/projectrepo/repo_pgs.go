// Package projectrepo manages repository layer of translation projects.
package projectrepo

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

// RepoPGS facilitates project repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns project RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns project RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const projectColumns = `
	id, title, source_language, target_language, status, word_count, deadline,
	price, client, COALESCE(translator, ''), COALESCE(translator_name, ''),
	auto_assigned, COALESCE(match_score, 0), created_at, updated_at, assigned_at, paid_at`

func scanProject(row interface{ Scan(...interface{}) error }) (domain.Project, error) {
	var (
		p          domain.Project
		assignedAt sql.NullTime
		paidAt     sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.SourceLanguage,
		&p.TargetLanguage,
		&p.Status,
		&p.WordCount,
		&p.Deadline,
		&p.Price,
		&p.Client,
		&p.Translator,
		&p.TranslatorName,
		&p.AutoAssigned,
		&p.MatchScore,
		&p.CreatedAt,
		&p.UpdatedAt,
		&assignedAt,
		&paidAt,
	)

	p.AssignedAt = assignedAt.Time
	p.PaidAt = paidAt.Time

	return p, err
}

const createProjectQuery = `
INSERT INTO
    projects (title, source_language, target_language, word_count, deadline, price, client)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING` + projectColumns

// Create posts the project in pending status and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateProjectParams) (domain.Project, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createProjectQuery,
		arg.Title, arg.SourceLanguage, arg.TargetLanguage, arg.WordCount,
		arg.Deadline, arg.Price, arg.Client)

	p, err := scanProject(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "projects_price_check" {
				return p, domain.ErrInvalidAmount
			}
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const getProjectQuery = `
SELECT` + projectColumns + `
FROM projects
WHERE id = $1
`

// Get returns the project with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Project, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProject(r.db.QueryRowContext(ctx, getProjectQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrProjectNotFound
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const listByParticipantQuery = `
SELECT` + projectColumns + `
FROM projects
WHERE client = $1 OR translator = $1
ORDER BY created_at DESC, id DESC
`

// ListByParticipant returns the projects the user posted or works on, newest first.
func (r *RepoPGS) ListByParticipant(ctx context.Context, username string) ([]domain.Project, error) {
	return r.list(ctx, listByParticipantQuery, username)
}

const listPendingUnassignedQuery = `
SELECT` + projectColumns + `
FROM projects
WHERE status = 'pending' AND translator IS NULL
ORDER BY created_at, id
`

// ListPendingUnassigned returns projects still waiting for a translator,
// oldest first.
func (r *RepoPGS) ListPendingUnassigned(ctx context.Context) ([]domain.Project, error) {
	return r.list(ctx, listPendingUnassignedQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]domain.Project, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	projects := []domain.Project{}

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return projects, nil
}

const setStatusQuery = `
UPDATE projects
SET status = $1, updated_at = now()
WHERE id = $2 AND status NOT IN ('completed', 'cancelled')
RETURNING` + projectColumns

// SetStatus moves the project to the given status. Terminal projects are
// left untouched.
func (r *RepoPGS) SetStatus(ctx context.Context, status domain.ProjectStatus, id int64) (domain.Project, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProject(r.db.QueryRowContext(ctx, setStatusQuery, status, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrProjectStatusFinal
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const assignProjectQuery = `
UPDATE projects
SET status = 'assigned', translator = $1, translator_name = $2,
    auto_assigned = TRUE, match_score = $3, assigned_at = now(), updated_at = now()
WHERE id = $4 AND status = 'pending' AND translator IS NULL
RETURNING` + projectColumns

// Assign gives the project to the matched translator.
//
// The project update and the capacity reservation run in one database
// transaction. A project that is no longer pending and unassigned is
// rejected, as is a translator that reached capacity meanwhile.
func (r *RepoPGS) Assign(ctx context.Context, arg domain.AssignProjectParams) (domain.AssignTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.AssignTxResult

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

	row := tx.QueryRowContext(ctx, assignProjectQuery,
		arg.Translator, arg.TranslatorName, arg.MatchScore, arg.ProjectID)

	result.Project, err = scanProject(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return result, domain.ErrProjectAlreadyAssigned
		}

		return result, errorspkg.ErrInternal
	}

	result.Profile, err = profilerepo.NewRepoPGS(tx).IncrementActive(ctx, arg.ProfileID)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

const completeProjectQuery = `
UPDATE projects
SET status = 'completed', updated_at = now()
WHERE id = $1 AND status != 'completed'
RETURNING` + projectColumns

// Complete marks the project finished and updates the translator's counters.
//
// The WHERE clause makes the operation idempotent: a repeated call finds no
// row to update and the translator's counters move exactly once.
func (r *RepoPGS) Complete(ctx context.Context, id int64) (domain.CompleteTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.CompleteTxResult

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

	result.Project, err = scanProject(tx.QueryRowContext(ctx, completeProjectQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return result, domain.ErrProjectStatusFinal
		}

		return result, errorspkg.ErrInternal
	}

	if result.Project.Translator != "" {
		result.Profile, err = profilerepo.NewRepoPGS(tx).CompleteActive(ctx, result.Project.Translator)
		if err != nil {
			return result, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

const deleteProjectQuery = `
DELETE FROM projects
WHERE id = $1
RETURNING` + projectColumns

// Delete removes the project. Capacity reserved by an unfinished assignment
// is released in the same database transaction.
func (r *RepoPGS) Delete(ctx context.Context, id int64) (domain.Project, error) {
	l := zerolog.Ctx(ctx)

	var deleted domain.Project

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return deleted, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	deleted, err = scanProject(tx.QueryRowContext(ctx, deleteProjectQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return deleted, domain.ErrProjectNotFound
		}

		return deleted, errorspkg.ErrInternal
	}

	if deleted.Translator != "" && !deleted.Status.Terminal() {
		if _, err := profilerepo.NewRepoPGS(tx).ReleaseActive(ctx, deleted.Translator); err != nil {
			return deleted, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return deleted, errorspkg.ErrInternal
	}

	return deleted, nil
}
