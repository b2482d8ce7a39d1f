// Package messagerepo manages repository layer of project messages.
package messagerepo

import (
	"context"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/pkg/dbpkg"
	"github.com/linguamarket/lingua/pkg/errorspkg"
)

// RepoPGS facilitates message repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const messageColumns = `
	id, project_id, sender, sender_name, text, read, created_at`

func scanMessage(row interface{ Scan(...interface{}) error }) (domain.Message, error) {
	var m domain.Message

	err := row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.Sender,
		&m.SenderName,
		&m.Text,
		&m.Read,
		&m.CreatedAt,
	)

	return m, err
}

const createMessageQuery = `
INSERT INTO
    messages (project_id, sender, sender_name, text)
VALUES
    ($1, $2, $3, $4)
RETURNING` + messageColumns

// Create appends the message to the project feed and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createMessageQuery,
		arg.ProjectID, arg.Sender, arg.SenderName, arg.Text)

	m, err := scanMessage(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "messages_project_id_fkey" {
				return m, domain.ErrProjectNotFound
			}
		}

		return m, errorspkg.ErrInternal
	}

	return m, nil
}

const listByProjectQuery = `
SELECT` + messageColumns + `
FROM messages
WHERE project_id = $1
ORDER BY created_at, id
`

// ListByProject returns the project's messages in posting order.
func (r *RepoPGS) ListByProject(ctx context.Context, projectID int64) ([]domain.Message, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByProjectQuery, projectID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	messages := []domain.Message{}

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return messages, nil
}

const markReadQuery = `
UPDATE messages
SET read = TRUE
WHERE project_id = $1 AND sender != $2 AND NOT read
`

// MarkRead flags the counterparty's messages in the project feed as read.
func (r *RepoPGS) MarkRead(ctx context.Context, projectID int64, reader string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, markReadQuery, projectID, reader); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const countUnreadQuery = `
SELECT COUNT(*)
FROM messages m
JOIN projects p ON p.id = m.project_id
WHERE (p.client = $1 OR p.translator = $1) AND m.sender != $1 AND NOT m.read
`

// CountUnread returns how many messages addressed to the user are unread
// across all of the user's projects.
func (r *RepoPGS) CountUnread(ctx context.Context, username string) (int64, error) {
	l := zerolog.Ctx(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countUnreadQuery, username).Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}
