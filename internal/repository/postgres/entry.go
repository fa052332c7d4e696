package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/models"
)

type EntryRepo struct {
	DB DBTX
}

const createEntry = `-- name: CreateEntry
INSERT INTO entries (user_id, content)
VALUES ($1, $2)
RETURNING id, created_at, user_id, content
`

func (r *EntryRepo) Create(ctx context.Context, ownerID int64, content string) (models.Entry, error) {
	rows, _ := r.DB.Query(ctx, createEntry, ownerID, content)
	entry, err := pgx.CollectOneRow(rows, rowToEntry)

	if err != nil {
		// Unknown owner trips the foreign key, empty content the check constraint
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return entry, apperrors.ErrEntryInvalid
		}

		return entry, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

const listFeed = `-- name: ListFeed
SELECT e.id, e.created_at, e.user_id, e.content, u.username
FROM entries e
JOIN users u ON u.id = e.user_id
ORDER BY e.id DESC
`

// ListFeed returns every entry with its author, most recent first.
// Ids are assigned monotonically and never reused, so id order is
// creation order.
func (r *EntryRepo) ListFeed(ctx context.Context) ([]models.FeedEntry, error) {
	rows, _ := r.DB.Query(ctx, listFeed)
	feed, err := pgx.CollectRows(rows, rowToFeedEntry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return feed, nil
}

const deleteEntry = `-- name: DeleteEntry
DELETE FROM entries
WHERE id = $1 AND user_id = $2
RETURNING id
`

// Delete removes the entry iff it exists and belongs to ownerID.
// A miss on either condition returns (false, nil): the caller can't and
// shouldn't learn whether the entry existed at all.
func (r *EntryRepo) Delete(ctx context.Context, ownerID int64, entryID int64) (bool, error) {
	rows, _ := r.DB.Query(ctx, deleteEntry, entryID, ownerID)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	default:
		return false, fmt.Errorf("db error: %w", err)
	}
}

const searchEntries = `-- name: SearchEntries
SELECT e.id, e.created_at, e.user_id, e.content, u.username
FROM entries e
JOIN users u ON u.id = e.user_id
WHERE e.content ILIKE '%' || $1 || '%' ESCAPE '\'
ORDER BY e.id DESC
`

// Search returns entries containing keyword as a case-insensitive literal
// substring, most recent first. LIKE metacharacters in the keyword are
// escaped so they match themselves; the keyword itself is always a bound
// parameter.
func (r *EntryRepo) Search(ctx context.Context, keyword string) ([]models.FeedEntry, error) {
	rows, _ := r.DB.Query(ctx, searchEntries, escapeLike(keyword))
	feed, err := pgx.CollectRows(rows, rowToFeedEntry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return feed, nil
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func rowToEntry(row pgx.CollectableRow) (models.Entry, error) {
	var e models.Entry
	err := row.Scan(&e.ID, &e.CreatedAt, &e.UserID, &e.Content)
	return e, err
}

func rowToFeedEntry(row pgx.CollectableRow) (models.FeedEntry, error) {
	var e models.FeedEntry
	err := row.Scan(&e.ID, &e.CreatedAt, &e.UserID, &e.Content, &e.Username)
	return e, err
}
