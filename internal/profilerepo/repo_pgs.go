// Package profilerepo manages repository layer of translator profiles.
package profilerepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/dbpkg"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

// RepoPGS facilitates translator profile repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const profileColumns = `
	id, username, languages, specializations, rating, completed_projects,
	active_projects, max_concurrent_projects, is_available, price_per_word,
	response_time_hours, created_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (domain.TranslatorProfile, error) {
	var p domain.TranslatorProfile

	err := row.Scan(
		&p.ID,
		&p.Username,
		pq.Array(&p.Languages),
		pq.Array(&p.Specializations),
		&p.Rating,
		&p.CompletedProjects,
		&p.ActiveProjects,
		&p.MaxConcurrentProjects,
		&p.IsAvailable,
		&p.PricePerWord,
		&p.ResponseTimeHours,
		&p.CreatedAt,
	)

	return p, err
}

const createProfileQuery = `
INSERT INTO
    profiles (username, languages, specializations, rating, max_concurrent_projects, price_per_word, response_time_hours)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING` + profileColumns

// Create publishes the translator profile in the directory and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateProfileParams) (domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createProfileQuery,
		arg.Username, pq.Array(arg.Languages), pq.Array(arg.Specializations),
		arg.Rating, arg.MaxConcurrentProjects, arg.PricePerWord, arg.ResponseTimeHours)

	p, err := scanProfile(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "profiles_username_key" {
				return p, domain.ErrProfileAlreadyExists
			}
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const getProfileQuery = `
SELECT` + profileColumns + `
FROM profiles
WHERE username = $1
`

// GetByUsername returns the profile owned by the given translator.
func (r *RepoPGS) GetByUsername(ctx context.Context, username string) (domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProfile(r.db.QueryRowContext(ctx, getProfileQuery, username))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrProfileNotFound
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const listProfilesQuery = `
SELECT` + profileColumns + `
FROM profiles
ORDER BY id
`

// List returns every translator profile in the directory.
func (r *RepoPGS) List(ctx context.Context) ([]domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listProfilesQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	profiles := []domain.TranslatorProfile{}

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return profiles, nil
}

const setAvailabilityQuery = `
UPDATE profiles
SET is_available = $1
WHERE username = $2
RETURNING` + profileColumns

// SetAvailability toggles whether the translator accepts new assignments.
func (r *RepoPGS) SetAvailability(ctx context.Context, available bool, username string) (domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProfile(r.db.QueryRowContext(ctx, setAvailabilityQuery, available, username))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrProfileNotFound
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const incrementActiveQuery = `
UPDATE profiles
SET active_projects = active_projects + 1
WHERE id = $1 AND active_projects < max_concurrent_projects
RETURNING` + profileColumns

// IncrementActive reserves one unit of the translator's capacity. The WHERE
// clause rejects the update once the translator is at capacity, so concurrent
// assignments cannot oversubscribe a profile.
func (r *RepoPGS) IncrementActive(ctx context.Context, id int32) (domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProfile(r.db.QueryRowContext(ctx, incrementActiveQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrTranslatorUnavailable
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const releaseActiveQuery = `
UPDATE profiles
SET active_projects = GREATEST(active_projects - 1, 0)
WHERE username = $1
RETURNING` + profileColumns

// ReleaseActive frees one unit of the translator's capacity, never dropping
// below zero.
func (r *RepoPGS) ReleaseActive(ctx context.Context, username string) (domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProfile(r.db.QueryRowContext(ctx, releaseActiveQuery, username))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrProfileNotFound
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const completeActiveQuery = `
UPDATE profiles
SET active_projects = GREATEST(active_projects - 1, 0),
    completed_projects = completed_projects + 1
WHERE username = $1
RETURNING` + profileColumns

// CompleteActive frees one unit of capacity and records the finished project.
func (r *RepoPGS) CompleteActive(ctx context.Context, username string) (domain.TranslatorProfile, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanProfile(r.db.QueryRowContext(ctx, completeActiveQuery, username))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return p, domain.ErrProfileNotFound
		}

		return p, errorspkg.ErrInternal
	}

	return p, nil
}
